package parallel

import (
	"context"
	"fmt"
	"sync"
)

// ForEach runs fn for every index in [0, n) on the pool and waits for all
// of them. It returns the error from the lowest failing index, so callers
// see deterministic failures regardless of scheduling. A cancelled context
// skips indices that have not started yet.
func (wp *WorkerPool) ForEach(ctx context.Context, n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	errs := make([]error, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		ok := wp.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("task %d panicked: %v", i, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(i)
		})
		if !ok {
			wg.Done()
			errs[i] = fmt.Errorf("task %d: pool closed", i)
		}
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
