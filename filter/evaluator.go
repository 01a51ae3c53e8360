package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an Evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets how many chunks are evaluated at once
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithBatchSize sets the chunk size; shorter lists are evaluated inline
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// Evaluator applies a Filter to lists of items
type Evaluator struct {
	workers   int
	batchSize int
}

// NewEvaluator creates an evaluator sized to the machine
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the items filter matches, in input order. Items the
// expression cannot be evaluated against (a missing field in a comparison,
// for instance) do not match.
func (e *Evaluator) Evaluate(ctx context.Context, filter *Filter, items []Item) ([]Item, error) {
	if len(items) == 0 {
		return []Item{}, nil
	}
	if len(items) < e.batchSize {
		return e.evaluateChunk(filter, items), nil
	}

	chunkSize := max(len(items)/e.workers, e.batchSize)
	chunks := make([][]Item, 0, len(items)/chunkSize+1)
	for i := 0; i < len(items); i += chunkSize {
		chunks = append(chunks, items[i:min(i+chunkSize, len(items))])
	}

	results := make([][]Item, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluateChunk(filter, chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	matches := make([]Item, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Strict is like Evaluate but fails on the first item the expression cannot
// be evaluated against.
func (e *Evaluator) Strict(filter *Filter, items []Item) ([]Item, error) {
	matches := make([]Item, 0, len(items))
	for i, item := range items {
		ok, err := filter.Match(item)
		if err != nil {
			return nil, &EvaluationError{Expression: filter.Expression(), Index: i, Err: err}
		}
		if ok {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

func (e *Evaluator) evaluateChunk(filter *Filter, items []Item) []Item {
	matches := make([]Item, 0, len(items)/4)
	for _, item := range items {
		if ok, err := filter.Match(item); err == nil && ok {
			matches = append(matches, item)
		}
	}
	return matches
}
