// Package serial runs submitted tasks one at a time, in submission
// order, on a single worker goroutine.
package serial

import (
	"errors"
	"sync"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("serial: runner stopped")

// Runner executes tasks FIFO on one goroutine. It gives a shared
// resource (here, a native database connection) single-threaded access
// without the callers coordinating with each other.
type Runner struct {
	mu      sync.Mutex
	tasks   chan func()
	stopped bool
	done    chan struct{}
}

// NewRunner starts a runner. depth bounds how many tasks may be queued
// before Submit blocks.
func NewRunner(depth int) *Runner {
	r := &Runner{
		tasks: make(chan func(), depth),
		done:  make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Runner) loop() {
	defer close(r.done)
	for task := range r.tasks {
		task()
	}
}

// Submit queues task for execution. Tasks run in submission order.
func (r *Runner) Submit(task func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrStopped
	}
	r.tasks <- task
	return nil
}

// Run queues task and waits for it to finish.
func (r *Runner) Run(task func()) error {
	fin := make(chan struct{})
	err := r.Submit(func() {
		defer close(fin)
		task()
	})
	if err != nil {
		return err
	}
	<-fin
	return nil
}

// Stop refuses further submissions, runs everything already queued, and
// waits for the worker to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.stopped = true
	close(r.tasks)
	r.mu.Unlock()
	<-r.done
}
