// Package concurrency holds the generic fan-out helper shared by the
// command entrypoints.
package concurrency

import (
	"context"
	"sync"
)

const defaultWorkers = 4

// ProcessParallel runs itemFunc over items with at most maxWorkers in flight
// and returns the results in input order. Errors are collected per item and
// do not stop the other items; a canceled context stops scheduling further
// work.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	maxWorkers int,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return nil, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type outcome struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	outcomes := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					outcomes <- outcome{index: i, err: ctx.Err()}
				default:
					r, err := itemFunc(ctx, i, items[i])
					outcomes <- outcome{index: i, result: r, err: err}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]R, len(items))
	var errs []error
	for o := range outcomes {
		results[o.index] = o.result
		if o.err != nil {
			errs = append(errs, o.err)
		}
	}
	return results, errs
}
