package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/db"
	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/server"
)

var (
	servePort        int
	serveDatabaseURL string
	serveWorkers     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the enrichment, batch, archive lookup, config, statistics and metrics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to service.port / PORT)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "Database URL for the result archive (overrides DATABASE_URL)")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Batch worker pool size (defaults to service.workers)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Service.Port = servePort
	}
	if serveDatabaseURL != "" {
		cfg.Service.DatabaseURL = serveDatabaseURL
	}
	if serveWorkers != 0 {
		cfg.Service.Workers = serveWorkers
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	// The archive is optional; a nil Store disables it.
	var store server.Store
	if cfg.Service.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.Service.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return err
		}
		store = database
	} else {
		log.Info("no database configured; results will not be archived")
	}

	enricher := enrichment.New(cfg, enrichment.WithLogger(log))
	srv := server.New(server.Config{
		Port:    cfg.Service.Port,
		Workers: cfg.Service.Workers,
	}, enricher, store, log)

	log.Info("enrichment engine ready",
		zap.String("version", config.Version),
		zap.Int("port", cfg.Service.Port),
		zap.Int("workers", cfg.Service.Workers),
	)
	return srv.Start(ctx)
}
