package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/logger"
)

// loadConfig resolves the effective configuration: file (or defaults),
// then environment overrides, then validation.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger; command-line flags win over config.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(logJSON || cfg.Service.LogJSON, debugLog || cfg.Service.Debug)
}

// writeJSON writes v as indented JSON to path, or to stdout when path is
// empty.
func writeJSON(path string, v any, stdout io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
