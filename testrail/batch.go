package testrail

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds FetchAll when no limit is given.
const DefaultFetchConcurrency = 5

// FetchAll calls fetch once per ID with at most limit calls in flight and
// returns the results in input order. The first error cancels the remaining
// calls and is returned unchanged.
func FetchAll[T any](ctx context.Context, ids []int, limit int, fetch func(ctx context.Context, id int) (T, error)) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultFetchConcurrency
	}

	results := make([]T, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			item, err := fetch(ctx, id)
			if err != nil {
				return err
			}
			results[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
