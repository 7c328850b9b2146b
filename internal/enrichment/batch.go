package enrichment

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-enrichment/internal/types"
)

// BatchItem is the outcome of one request in a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Result *types.EnrichedProfileResult
	Err    error
}

// EnrichBatch enriches requests on at most workers goroutines. Items are
// returned in input order. Once ctx is done no further requests are
// started; the unstarted items carry ctx.Err() and the same error is
// returned.
func (e *Enricher) EnrichBatch(ctx context.Context, reqs []Request, workers int) ([]BatchItem, error) {
	if workers <= 0 {
		workers = 1
	}
	items := make([]BatchItem, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range reqs {
		if err := gCtx.Err(); err != nil {
			for j := i; j < len(reqs); j++ {
				items[j].Err = err
			}
			break
		}
		g.Go(func() error {
			// each goroutine writes only its own slot
			res, err := e.Enrich(reqs[i])
			items[i] = BatchItem{Result: res, Err: err}
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		e.logger.Warn("batch enrichment interrupted", zap.Error(err))
		return items, err
	}

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	e.logger.Info("batch enrichment completed",
		zap.Int("requests", len(reqs)),
		zap.Int("failed", failed),
		zap.Int("workers", workers),
	)
	return items, nil
}
