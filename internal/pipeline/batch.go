package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/privacyaudit/internal/model"
)

// DefaultConcurrency is the number of audits run at once by a BatchProcessor.
const DefaultConcurrency = 5

// BatchProcessor audits several URLs concurrently.
//
// Design decision: We keep batching out of Auditor so the single-URL path
// used by the HTTP handler stays synchronous, and the CLI alone decides
// how many fetches run in parallel.
type BatchProcessor struct {
	auditor     *Auditor
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that runs audits with auditor.
func NewBatchProcessor(auditor *Auditor, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		auditor:     auditor,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch audits every request.
//
// The returned slice has one entry per request in input order. An entry is
// nil when its audit failed; the failures are joined into the returned error.
// A cancelled context stops audits that have not started yet.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, reqs []Request) ([]*model.PrivacyReport, error) {
	bp.logger.Info("starting batch audit",
		"total_urls", len(reqs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Indexed writes keep input order and need no lock.
	results := make([]*model.PrivacyReport, len(reqs))
	errs := make([]error, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				errs[i] = fmt.Errorf("%s: %w", req.URL, ctx.Err())
				return nil
			default:
			}

			bp.logger.Debug("auditing url",
				"url", req.URL,
				"index", i+1,
				"total", len(reqs),
			)

			r, err := bp.auditor.Audit(ctx, req)
			if err != nil {
				bp.logger.Warn("audit failed", "url", req.URL, "error", err)
				errs[i] = fmt.Errorf("%s: %w", req.URL, err)
				return nil
			}
			results[i] = r
			return nil
		})
	}

	// Goroutines never return errors; failures are collected per URL.
	_ = g.Wait() //nolint:errcheck

	bp.logger.Info("batch audit complete",
		"total_urls", len(reqs),
		"elapsed", time.Since(startTime),
	)

	return results, errors.Join(errs...)
}
