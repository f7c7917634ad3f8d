package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
)

// processSequential processes items one at a time.
func (r *runner) processSequential(ctx context.Context) (*multierror.Error, error) {
	var failures *multierror.Error
	inputs := r.opts.Inputs

	for i, path := range inputs {
		select {
		case <-ctx.Done():
			return failures, ctx.Err()
		default:
		}

		slog.Debug("processing item", "item", fmt.Sprintf("%d/%d", i+1, len(inputs)), "input", path)

		if err := r.processItem(ctx, path); err != nil {
			var cancelled error
			if failures, cancelled = r.recordFailure(ctx, failures, path, err); cancelled != nil {
				return failures, cancelled
			}
		}
	}
	return failures, nil
}
