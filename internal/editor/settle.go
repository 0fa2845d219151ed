package editor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"docsync/internal/apperr"
)

// Result is the outcome of one settled task.
type Result[T any] struct {
	Value T
	Err   error
}

// Settle runs fn for every item and waits for all of them. A failing or
// panicking task never cancels its siblings, and results[i] always belongs to
// items[i]. limit <= 0 means no concurrency limit.
func Settle[In, Out any](ctx context.Context, limit int, items []In, fn func(ctx context.Context, i int, item In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result[Out]{Err: &apperr.PanicError{Value: r}}
				}
			}()
			v, err := fn(ctx, i, item)
			results[i] = Result[Out]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
