package search

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// BenchmarkLimiter measures acquire/release round trips under contention
func BenchmarkLimiter(b *testing.B) {
	l, err := NewLimiter(4)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			slot, err := l.Acquire(ctx)
			if err != nil {
				b.Fatal(err)
			}
			slot.Release()
		}
	})
}

// BenchmarkRun measures a full not-found run at different ceilings
func BenchmarkRun(b *testing.B) {
	ceilings := []int{1, 2, 4, 8}

	candidates := make([]string, 64)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("pw%d", i)
	}
	targets := []string{"bench.7z"}

	attempt := func(target, candidate string) (bool, error) {
		time.Sleep(10 * time.Microsecond)
		return false, nil
	}

	for _, ceiling := range ceilings {
		b.Run(fmt.Sprintf("parallel_%d", ceiling), func(b *testing.B) {
			coord, err := New(attempt, Options{Parallel: ceiling, Logger: testLogger()})
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := coord.Run(context.Background(), candidates, targets); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
