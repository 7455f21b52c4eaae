// File: internal/infra/worker/runner.go
package worker

import (
	"context"
	"sync"
)

// A very small background runner: one goroutine per submitted task. Jobs run
// to completion; there is no cancellation once dispatched, but each
// submission returns a Handle so a future revision can add one without
// breaking callers.

type Task func(ctx context.Context)

// Handle observes a single submitted task.
type Handle struct {
	done chan struct{}
}

// Done is closed when the task returns.
func (h *Handle) Done() <-chan struct{} { return h.done }

type Runner struct {
	wg  sync.WaitGroup
	ctx context.Context
}

// NewRunner creates a runner whose tasks receive ctx. Pass a context that is
// not tied to any single request; dispatched jobs outlive their submitter.
func NewRunner(ctx context.Context) *Runner {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Runner{ctx: ctx}
}

// Go schedules the task on its own goroutine and returns immediately.
func (r *Runner) Go(task Task) *Handle {
	h := &Handle{done: make(chan struct{})}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(h.done)
		task(r.ctx)
	}()
	return h
}

// Wait blocks until every task submitted so far has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}
