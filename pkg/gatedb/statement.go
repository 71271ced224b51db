package gatedb

import (
	"context"
	"fmt"
	"sync"

	"github.com/gatedb/gatedb/pkg/dberr"
	"github.com/gatedb/gatedb/pkg/sqlite"
)

// State tracks a statement through its lifecycle.
type State int

const (
	// StatePrepared: compilation succeeded; every access the statement
	// makes was allowed or elided.
	StatePrepared State = iota
	// StateBound: parameters validated and bound.
	StateBound
	// StateExecuting: the engine is running the plan.
	StateExecuting
	// StateCompleted: the last execution ran to exhaustion. The
	// statement may be run again; runs are serialized.
	StateCompleted
	// StateFailed: binding or execution failed. Terminal; further runs
	// return the recorded failure.
	StateFailed
)

// String implements the Stringer interface for State
func (s State) String() string {
	switch s {
	case StatePrepared:
		return "PREPARED"
	case StateBound:
		return "BOUND"
	case StateExecuting:
		return "EXECUTING"
	case StateCompleted:
		return "COMPLETED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// Statement is a compiled plan tied to the connection that prepared it.
// Closing the connection invalidates the statement. A statement is not
// re-entrant: concurrent runs are serialized by the connection, never
// interleaved.
type Statement struct {
	conn        *Connection
	query       string
	returnsRows bool

	mu       sync.Mutex
	state    State
	raw      *sqlite.Stmt
	closed   bool
	executed bool
	failure  *dberr.Error
}

// Query returns the SQL text the statement was compiled from.
func (s *Statement) Query() string {
	return s.query
}

// State returns the statement's current lifecycle state.
func (s *Statement) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run executes the statement with params and blocks until the engine
// finishes. It is the blocking face of the same pipeline RunDeferred
// uses, so the two modes cannot diverge in outcome or error.
func (s *Statement) Run(params ...any) (*Outcome, error) {
	return s.RunDeferred(params...).Wait()
}

// RunDeferred queues the statement for execution and returns a
// completion handle immediately. The execution runs on the
// connection's worker; the handle settles exactly once.
func (s *Statement) RunDeferred(params ...any) *Future {
	fut := newFuture()
	err := s.conn.submit(func() {
		if !fut.start() {
			return
		}
		fut.complete(s.execute(params))
	})
	if err != nil {
		fut.complete(nil, dberr.NotOpen("connection"))
	}
	return fut
}

// execute binds params, drives the plan to completion, and collects the
// outcome. It is only ever called from the connection's worker
// goroutine.
func (s *Statement) execute(params []any) (*Outcome, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, dberr.NotOpen("statement")
	}
	if s.conn.isClosed() {
		s.mu.Unlock()
		return nil, dberr.NotOpen("connection")
	}
	if s.state == StateFailed {
		failure := s.failure
		s.mu.Unlock()
		return nil, failure
	}
	if !s.executed {
		s.executed = true
		s.conn.releaseHold()
	}

	// Bind. A parameter mismatch fails before the engine is invoked.
	vals, err := sqlite.BindValues(params)
	if err != nil {
		failure := dberr.Engine("SQLITE_MISMATCH", 20, err.Error())
		s.state, s.failure = StateFailed, failure
		s.mu.Unlock()
		return nil, failure
	}
	if want := s.raw.NumInput(); want != len(vals) {
		failure := dberr.Engine("SQLITE_RANGE", sqlite.CodeRange,
			fmt.Sprintf("statement expects %d parameters, got %d", want, len(vals)))
		s.state, s.failure = StateFailed, failure
		s.mu.Unlock()
		return nil, failure
	}
	s.state = StateBound
	raw := s.raw
	s.state = StateExecuting
	s.mu.Unlock()

	outcome := &Outcome{}
	ctx := context.Background()
	if s.returnsRows {
		outcome.Columns, outcome.Rows, err = raw.Query(ctx, vals)
	} else {
		outcome.RowsAffected, outcome.LastInsertID, err = raw.Exec(ctx, vals)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		failure := dberr.Classify(err)
		s.state, s.failure = StateFailed, failure
		return nil, failure
	}
	s.state = StateCompleted
	return outcome, nil
}

// Close releases the compiled plan. Closing an already-closed statement
// is a no-op.
func (s *Statement) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if !s.executed {
		s.executed = true
		s.conn.releaseHold()
	}
	raw := s.raw
	s.mu.Unlock()

	var closeErr error
	err := s.conn.run(func() { closeErr = raw.Close() })
	if err != nil {
		// Connection already closed; the engine freed the plan with it.
		return nil
	}
	return closeErr
}
