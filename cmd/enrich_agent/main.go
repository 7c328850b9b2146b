// Package main provides the entry point for the candidate enrichment CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enrich_agent",
	Short: "Candidate Profile Enrichment Engine",
	Long: "enrich_agent merges a parsed resume with matched external profiles into a single " +
		"confidence-scored candidate profile and scores it against job skill requirements.",
	SilenceUsage: true,
}

var (
	configPath string
	logJSON    bool
	debugLog   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON configuration file (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit JSON logs (overrides LOG_JSON)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging (overrides DEBUG)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
