package gatedb

import (
	"errors"
	"sync"
)

// ErrCancelled completes a deferred execution that was cancelled before
// it reached the engine.
var ErrCancelled = errors.New("gatedb: execution cancelled")

// Outcome is the result of one successful execution. Rows and Columns
// are populated for row-producing statements; RowsAffected and
// LastInsertID for mutations. A failed execution produces a classified
// error instead, never both.
type Outcome struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
	LastInsertID int64
}

type futureState int

const (
	futurePending futureState = iota
	futureRunning
	futureDone
	futureCancelled
)

// Future is the completion handle for a deferred execution. It settles
// exactly once, with either an outcome or a classified error.
type Future struct {
	mu      sync.Mutex
	state   futureState
	done    chan struct{}
	outcome *Outcome
	err     error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// start transitions the future to running. It returns false when the
// future was cancelled while queued; the execution must then be
// skipped.
func (f *Future) start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != futurePending {
		return false
	}
	f.state = futureRunning
	return true
}

func (f *Future) complete(outcome *Outcome, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == futureDone || f.state == futureCancelled {
		return
	}
	f.state = futureDone
	f.outcome = outcome
	f.err = err
	close(f.done)
}

// Cancel abandons the execution if it has not started on the engine.
// It reports whether cancellation won; once the engine is running the
// statement, cancellation is refused and the future settles normally.
// No rollback is attempted for work the engine has already done.
func (f *Future) Cancel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != futurePending {
		return false
	}
	f.state = futureCancelled
	f.err = ErrCancelled
	close(f.done)
	return true
}

// Done is closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles and returns its outcome or
// error.
func (f *Future) Wait() (*Outcome, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome, f.err
}
