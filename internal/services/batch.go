package services

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

const defaultWorkers = 5

// fanOut calls fn(i) for i in [0, n) with at most workers running at once.
// Indices not yet started when ctx is cancelled are skipped and ctx's error
// is returned.
func fanOut(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers <= 0 {
		workers = defaultWorkers
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			fn(i)
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return nil
}
