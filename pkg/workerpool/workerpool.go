// Package workerpool runs bounded concurrent work over a slice of items.
package workerpool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Process hands items to at most workerCount goroutines, in slice order. The first error
// returned by process cancels the remaining work, runs onCancel once and is returned.
// If ctx ends first, ctx.Err() is returned.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
	onCancel func(),
) error {
	if workerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", workerCount)
	}
	if len(items) == 0 {
		return ctx.Err()
	}
	if workerCount > len(items) {
		workerCount = len(items)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		next     atomic.Int64
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			if onCancel != nil {
				onCancel()
			}
			cancel()
		})
	}

	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				i := next.Add(1) - 1
				if i >= int64(len(items)) {
					return
				}
				if err := process(ctx, items[i]); err != nil {
					fail(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
