package services

import (
	"context"
	"runtime"
	"sync"
)

// Executor runs CPU-bound work with bounded parallelism. It is a separate
// knob from the batch concurrency limit: the pool bounds parsing threads,
// the semaphore bounds books in flight including their I/O.
type Executor interface {
	// Do schedules fn and waits for it to finish. It returns the context
	// error when cancellation wins the race to submission.
	Do(ctx context.Context, fn func()) error
}

// WorkerPool is a fixed-size goroutine pool implementing Executor.
type WorkerPool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool starts size workers. A non-positive size defaults to the
// number of CPUs.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	p := &WorkerPool{jobs: make(chan func())}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for fn := range p.jobs {
				fn()
			}
		}()
	}
	return p
}

// Do submits fn and blocks until it has run. Once submitted the work runs
// to completion; fn is expected to observe cancellation itself.
func (p *WorkerPool) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}

	select {
	case p.jobs <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done
	return nil
}

// Close stops accepting work and waits for the workers to drain.
func (p *WorkerPool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
