package usecase

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"Astrolabe/internal/domain/models"
	"Astrolabe/pkg/logger"
)

// BatchResult is the outcome of one request in a batch.
type BatchResult struct {
	Index int
	ID    string
	Chart *models.Chart
	Err   error
}

// BatchRunner computes many charts with a bounded number of workers.
type BatchRunner struct {
	builder *ChartBuilder
	workers int
	log     *logger.Logger
}

func NewBatchRunner(builder *ChartBuilder, workers int, log *logger.Logger) *BatchRunner {
	if workers <= 0 {
		workers = 1
	}
	return &BatchRunner{builder: builder, workers: workers, log: log}
}

// Run returns one result per request, in input order. A failing request does not stop
// the others; only cancellation of ctx does, and then ctx's error is returned too.
func (r *BatchRunner) Run(ctx context.Context, reqs []models.ChartRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, req := range reqs {
		i, req := i, req
		if req.ID == "" {
			req.ID = uuid.NewString()
		}
		g.Go(func() error {
			chart, err := r.builder.Build(ctx, req)
			results[i] = BatchResult{Index: i, ID: req.ID, Chart: chart, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.log.Info("batch finished",
		logger.Int("requests", len(reqs)),
		logger.Int("failed", failed),
		logger.Int("workers", r.workers),
	)
	return results, ctx.Err()
}

// WithWorkers returns a copy of the runner with a different worker count.
func (r *BatchRunner) WithWorkers(workers int) *BatchRunner {
	return NewBatchRunner(r.builder, workers, r.log)
}
