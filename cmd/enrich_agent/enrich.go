package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-enrichment/internal/db"
	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/observability"
	"github.com/jonathan/candidate-enrichment/internal/schemas"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich one candidate from a request JSON file",
	Long: "Validate an enrichment request (resume_data, profiles, optional job_context) against the " +
		"enrich_request schema, merge it into a unified candidate profile and write the result as JSON.",
	RunE: runEnrich,
}

var (
	enrichInputFile   string
	enrichOutputFile  string
	enrichDatabaseURL string
	enrichVerbose     bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichInputFile, "in", "i", "", "Path to enrichment request JSON file (required)")
	enrichCmd.Flags().StringVarP(&enrichOutputFile, "out", "o", "", "Path to output JSON file (stdout when omitted)")
	enrichCmd.Flags().StringVar(&enrichDatabaseURL, "db-url", "", "Archive the result in this database")
	enrichCmd.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print progress and a readable summary to stderr")

	if err := enrichCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	enricher := enrichment.New(cfg, enrichment.WithLogger(log))

	var progress enrichment.ProgressCallback
	if enrichVerbose {
		progress = func(ev enrichment.ProgressEvent) {
			_, _ = fmt.Fprintf(os.Stderr, "→ %s: %s\n", ev.Step, ev.Message)
		}
	}

	result, err := enrichFile(enricher, enrichInputFile, progress)
	if err != nil {
		return err
	}

	if enrichVerbose {
		observability.NewPrinter(os.Stderr).PrintResult(result)
	}

	dbURL := enrichDatabaseURL
	if dbURL == "" {
		dbURL = cfg.Service.DatabaseURL
	}
	if dbURL != "" {
		database, err := db.Connect(cmd.Context(), dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(cmd.Context()); err != nil {
			return err
		}
		id, err := database.SaveResult(cmd.Context(), result)
		if err != nil {
			return fmt.Errorf("failed to archive result: %w", err)
		}
		log.Info("result archived", zap.String("result_id", id.String()))
	}

	if err := writeJSON(enrichOutputFile, result, os.Stdout); err != nil {
		return err
	}
	if enrichOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Successfully enriched candidate %s to %s\n", result.Profile.CandidateID, enrichOutputFile)
	}
	return nil
}

// enrichFile reads, validates and enriches one request file.
func enrichFile(e *enrichment.Enricher, path string, progress enrichment.ProgressCallback) (*types.EnrichedProfileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return enrichReader(e, f, progress)
}

// enrichReader validates and enriches one request document.
func enrichReader(e *enrichment.Enricher, r io.Reader, progress enrichment.ProgressCallback) (*types.EnrichedProfileResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	if err := schemas.ValidateRequest(data); err != nil {
		return nil, err
	}

	var wire types.EnrichRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if err := wire.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	req := e.NewRequest(&wire)
	req.OnProgress = progress
	return e.Enrich(req)
}
