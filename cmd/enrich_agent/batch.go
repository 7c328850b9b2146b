package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/observability"
	"github.com/jonathan/candidate-enrichment/internal/ranking"
	"github.com/jonathan/candidate-enrichment/internal/schemas"
	"github.com/jonathan/candidate-enrichment/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich many candidates from a batch JSON file",
	Long: "Enrich every request of a {\"requests\": [...]} file on a bounded worker pool. " +
		"Results keep input order; with --rank, candidates scored against a job are ranked.",
	RunE: runBatch,
}

var (
	batchInputFile  string
	batchOutputFile string
	batchWorkers    int
	batchRank       bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputFile, "in", "i", "", "Path to batch request JSON file (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Path to output JSON file (stdout when omitted)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Worker pool size (defaults to service.workers)")
	batchCmd.Flags().BoolVar(&batchRank, "rank", false, "Rank candidates by job relevance and print the shortlist to stderr")

	if err := batchCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

// batchOutput is the document written by the batch command.
type batchOutput struct {
	Results   []batchOutputItem         `json:"results"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
	Ranking   []ranking.RankedCandidate `json:"ranking,omitempty"`
}

type batchOutputItem struct {
	Index  int                          `json:"index"`
	Result *types.EnrichedProfileResult `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	workers := batchWorkers
	if workers <= 0 {
		workers = cfg.Service.Workers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enricher := enrichment.New(cfg, enrichment.WithLogger(log))
	out, err := enrichBatchFile(ctx, enricher, batchInputFile, workers, batchRank)
	if err != nil {
		return err
	}

	if batchRank {
		observability.NewPrinter(os.Stderr).PrintRanking(out.Ranking)
	}
	return writeJSON(batchOutputFile, out, os.Stdout)
}

// enrichBatchFile reads, validates and enriches a batch file.
func enrichBatchFile(ctx context.Context, e *enrichment.Enricher, path string, workers int, rank bool) (*batchOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	if err := schemas.ValidateBatch(data); err != nil {
		return nil, err
	}

	var batch types.BatchEnrichRequest
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch: %w", err)
	}
	if err := batch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch: %w", err)
	}

	reqs := make([]enrichment.Request, len(batch.Requests))
	for i := range batch.Requests {
		reqs[i] = e.NewRequest(&batch.Requests[i])
	}

	items, err := e.EnrichBatch(ctx, reqs, workers)
	if err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	out := &batchOutput{Results: make([]batchOutputItem, len(items))}
	results := make([]*types.EnrichedProfileResult, len(items))
	for i, item := range items {
		out.Results[i].Index = i
		if item.Err != nil {
			out.Failed++
			out.Results[i].Error = item.Err.Error()
			continue
		}
		out.Succeeded++
		out.Results[i].Result = item.Result
		results[i] = item.Result
	}
	if rank {
		out.Ranking = ranking.RankCandidates(results)
	}
	return out, nil
}
