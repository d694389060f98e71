package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	ctx := context.Background()
	var completed int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		if err := pool.Submit(ctx, func() {
			defer wg.Done()
			atomic.AddInt64(&completed, 1)
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt64(&completed); got != 20 {
		t.Errorf("completed = %d, want 20", got)
	}
}

func TestWorkerPoolDefaultsMaxWorkersToNumCPU(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()

	if cap(pool.taskChan) <= 0 {
		t.Error("expected a buffered task channel even with maxWorkers<=0")
	}
}

func TestWorkerPoolRejectsSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Shutdown()

	if err := pool.Submit(context.Background(), func() {}); err != ErrPoolShutdown {
		t.Errorf("expected ErrPoolShutdown after Shutdown, got %v", err)
	}
}

func TestWorkerPoolShutdownIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Shutdown()
	pool.Shutdown() // must not panic on double-close
}

func TestWorkerPoolCancelledContext(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Saturate the single worker and its queue so Submit would otherwise
	// block, then confirm the cancelled context unblocks it instead of
	// hanging.
	block := make(chan struct{})
	if err := pool.Submit(context.Background(), func() { <-block }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	defer close(block)

	for i := 0; i < cap(pool.taskChan); i++ {
		pool.Submit(context.Background(), func() {})
	}
	if err := pool.Submit(ctx, func() {}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func BenchmarkWorkerPool(b *testing.B) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			task := func() {
				time.Sleep(1 * time.Millisecond)
			}
			pool.Submit(ctx, task)
		}
	})
}
