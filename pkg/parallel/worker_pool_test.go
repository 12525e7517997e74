package parallel

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("expected ErrTooManyWorkers, got %v", err)
	}
}

func TestWorkerPoolClampsSize(t *testing.T) {
	for _, workers := range []int{0, -5} {
		pool, err := NewWorkerPool(workers)
		if err != nil {
			t.Fatalf("NewWorkerPool(%d): %v", workers, err)
		}
		if pool.Workers() != 1 {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want 1", workers, pool.Workers())
		}
		pool.Close()
	}
}

func TestWorkerPoolSubmitAndExecute(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatal(err)
	}

	var executed atomic.Int64
	for i := 0; i < 10; i++ {
		if !pool.Submit(func() { executed.Add(1) }) {
			t.Fatal("Submit returned false on open pool")
		}
	}

	pool.Close()

	if executed.Load() != 10 {
		t.Errorf("executed %d tasks, want 10", executed.Load())
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatal(err)
	}
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit returned true on closed pool")
	}
}

func TestForEachRunsAllIndices(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	seen := make([]atomic.Bool, 20)
	if err := pool.ForEach(context.Background(), 20, func(i int) error {
		seen[i].Store(true)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	for i := range seen {
		if !seen[i].Load() {
			t.Errorf("index %d never ran", i)
		}
	}
}

func TestForEachReturnsLowestIndexError(t *testing.T) {
	pool, err := NewWorkerPool(8)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	errThree := errors.New("three")
	errSeven := errors.New("seven")

	got := pool.ForEach(context.Background(), 10, func(i int) error {
		switch i {
		case 7:
			return errSeven
		case 3:
			return errThree
		}
		return nil
	})
	if !errors.Is(got, errThree) {
		t.Errorf("ForEach error = %v, want %v", got, errThree)
	}
}

func TestForEachRecoversPanics(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	got := pool.ForEach(context.Background(), 4, func(i int) error {
		if i == 2 {
			panic("boom")
		}
		return nil
	})
	if got == nil {
		t.Error("expected an error from the panicking task")
	}
}

func TestForEachCancelledContext(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := pool.ForEach(ctx, 4, func(i int) error { return nil })
	if !errors.Is(got, context.Canceled) {
		t.Errorf("ForEach error = %v, want context.Canceled", got)
	}
}
