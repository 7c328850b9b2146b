package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/schemas"
	embedded "github.com/jonathan/candidate-enrichment/schemas"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate engine configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Long:  "Print the configuration after applying the --config file, defaults and environment overrides.",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		return writeJSON("", cfg, os.Stdout)
	},
}

var configValidateFile string

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long:  "Validate a configuration file against the config schema and the engine's value constraints.",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := validateConfigFile(configValidateFile); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			return err
		}
		_, _ = fmt.Fprintln(os.Stdout, "Validation passed")
		return nil
	},
}

func init() {
	configValidateCmd.Flags().StringVarP(&configValidateFile, "file", "f", "", "Path to configuration JSON file (required)")
	if err := configValidateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	configCmd.AddCommand(configShowCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// validateConfigFile checks the file's shape against the schema, then
// the merged values.
func validateConfigFile(path string) error {
	if err := schemas.ValidateFile(embedded.Config, path); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	return cfg.Validate()
}
