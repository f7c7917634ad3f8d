package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// processConcurrent processes items with bounded parallelism. Item
// failures are collected; only cancellation stops the group.
func (r *runner) processConcurrent(ctx context.Context) (*multierror.Error, error) {
	inputs := r.opts.Inputs
	r.log.Info("starting concurrent processing", "items", len(inputs), "max_concurrent", r.opts.Jobs)

	var (
		mu       sync.Mutex
		failures *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)

	for i, path := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slog.Debug("starting item", "item", fmt.Sprintf("%d/%d", i+1, len(inputs)), "input", path)

			err := r.processItem(gctx, path)
			if err == nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			var cancelled error
			failures, cancelled = r.recordFailure(gctx, failures, path, err)
			return cancelled
		})
	}

	if err := g.Wait(); err != nil {
		return failures, err
	}
	return failures, nil
}
