// Package parallel provides the worker pool that fans parameter-sweep
// samples out across goroutines.
package parallel

import (
	"fmt"
	"math"
	"sync"
)

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// WorkerPool manages a fixed set of worker goroutines draining a shared
// task queue.
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
}

// NewWorkerPool creates a pool with the given number of workers. Counts
// below one are clamped to one; counts above MaxWorkers are rejected.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in the buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int { return wp.workers }

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// A panicking task must not take the worker down with it.
		func() {
			defer func() {
				recover()
			}()
			task()
		}()
	}
}

// Submit adds a task to the pool. It returns false once the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks, drains the queue and waits for the workers
// to exit. It is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
