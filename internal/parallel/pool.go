// Package parallel provides the one bounded worker pool the enumeration
// driver is allowed to use for internal concurrency (§5's "bounded
// internal parallelism for generator fan-out" expansion): fanning
// ReactionGenerator.Bimolecular calls for independent partner complexes
// (the resting pool plus the complex being cross-reacted) out across a
// fixed-size goroutine pool, without
// changing the deterministic, sorted output the driver commits.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// WorkerPool runs submitted tasks across a fixed number of goroutines.
// Submit blocks once the queue is full until a worker frees up, ctx is
// cancelled, or the pool is shut down — there is no dynamic scaling here,
// since the driver's fan-out width is fixed for the lifetime of one
// enumeration run (set once via Options.MaxParallelGenerators).
type WorkerPool struct {
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a worker pool with the given number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		taskChan:     make(chan func(), maxWorkers*4),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for {
		select {
		case task, ok := <-wp.taskChan:
			if !ok {
				return
			}
			task()
		case <-wp.shutdownChan:
			return
		}
	}
}

// Submit queues a task for execution. It blocks until a slot is free, ctx
// is done, or the pool has been shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops the pool's workers and waits for them to exit. Callers
// must ensure every submitted task has already completed (e.g. via their
// own WaitGroup, as getSlowReactions does) before calling Shutdown, since
// a worker selects between the task channel and the shutdown signal and
// may exit without draining a still-queued task. Safe to call more than
// once.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")
