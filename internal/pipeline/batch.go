package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/vistoria/internal/model"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency is the number of records processed at once when
// WithConcurrency is not given.
const defaultConcurrency = 10

// BatchProcessor builds the reports of a whole dataset, several records at
// a time.
//
// Design decision: Batching lives outside Pipeline so that a Pipeline
// stays a single-record, single-goroutine object.
type BatchProcessor struct {
	// newPipeline returns a fresh pipeline per record.
	newPipeline func() *Pipeline
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger of batch progress.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency bounds the number of records processed at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a processor calling newPipeline once per
// record.
func NewBatchProcessor(newPipeline func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		newPipeline: newPipeline,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch builds the reports of every record of a dataset
// concurrently. Reports are returned in dataset order, including the ones
// whose pipeline failed; their Error field says why.
//
// The error return is non-nil only when the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, d *model.Dataset) ([]*model.Report, error) {
	results := make([]*model.Report, d.Len())
	err := bp.ProcessBatchWithCallback(ctx, d, func(r *model.Report, i int) {
		// Each goroutine writes its own slot.
		results[i] = r
	})
	return results, err
}

// ProcessBatchWithCallback builds the reports of every record and calls a
// callback for each completed one. The callback is called from worker
// goroutines, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	d *model.Dataset,
	callback func(report *model.Report, index int),
) error {
	rows := d.Rows()
	bp.logger.Info("building reports", "records", len(rows), "concurrency", bp.concurrency)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, row := range rows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec := NewRecord(i, row)
			if err := bp.newPipeline().Execute(ctx, rec); err != nil {
				bp.logger.Warn("record failed",
					"record", i,
					"error", err,
				)
			}

			callback(rec.Report, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("reports built", "records", len(rows), "elapsed", time.Since(start))

	return err
}
