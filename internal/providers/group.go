package providers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallel runs sibling resolution tasks concurrently. The first failure
// cancels the context seen by the others and is the one returned.
func parallel(ctx context.Context, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}
