package filter

import (
	"context"
	"testing"
)

// Benchmark filter compilation
func BenchmarkCompile(b *testing.B) {
	expressions := []struct {
		name string
		expr string
	}{
		{"simple", `priority_id >= 3`},
		{"complex", `icontains(title, "login") and priority_id > 2 and created_on < daysAgo(30)`},
	}

	for _, tc := range expressions {
		b.Run(tc.name, func(b *testing.B) {
			compiler := NewCompiler()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := compiler.Compile(tc.expr); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark filter compilation with caching
func BenchmarkCompileWithCache(b *testing.B) {
	compiler := NewCompiler(WithCache(100))
	expression := `icontains(title, "login") and priority_id > 2`

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := compiler.Compile(expression); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark single item matching
func BenchmarkMatch(b *testing.B) {
	items := generateItems(1000)
	filter, _ := NewCompiler().Compile(`priority_id >= 3 and icontains(title, "5")`)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		matches := 0
		for _, item := range items {
			if ok, _ := filter.Match(item); ok {
				matches++
			}
		}
		_ = matches
	}
}

// Benchmark chunked evaluation
func BenchmarkEvaluate(b *testing.B) {
	items := generateItems(10000)
	filter, _ := NewCompiler().Compile(`priority_id >= 3 and created_on > daysAgo(365)`)
	ctx := context.Background()

	evaluators := []struct {
		name      string
		evaluator *Evaluator
	}{
		{"workers-1", NewEvaluator(WithWorkers(1))},
		{"workers-4", NewEvaluator(WithWorkers(4))},
		{"workers-8", NewEvaluator(WithWorkers(8))},
		{"workers-default", NewEvaluator()},
	}

	for _, tc := range evaluators {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := tc.evaluator.Evaluate(ctx, filter, items); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
