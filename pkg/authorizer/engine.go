package authorizer

import (
	"io"
	"log/slog"
	"sync"

	"github.com/gatedb/gatedb/pkg/policy"
	"github.com/gatedb/gatedb/pkg/sqlite"
)

// Engine answers the engine's compile-time access checks for one
// attached policy. The policy is read-only, so concurrent Decide calls
// need no locking; the captured denial does, since the engine callback
// and the error path race only in the sense of happening on either side
// of a failed Prepare.
type Engine struct {
	policy *policy.Policy
	logger *slog.Logger

	mu     sync.Mutex
	denied *AccessEvent
}

// New creates an engine enforcing p. logger may be nil.
func New(p *policy.Policy, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{policy: p, logger: logger}
}

// Policy returns the attached policy.
func (e *Engine) Policy() *policy.Policy {
	return e.policy
}

// Decide evaluates one access event. An Ignore effect on an access that
// cannot be elided is enforced as Deny: there is no safe partial
// elision for writes, DDL, or pragmas.
func (e *Engine) Decide(ev AccessEvent) policy.Effect {
	effect := e.policy.Evaluate(ev.Object, ev.Action, ev.Column)
	if effect == policy.Ignore && !ev.Elidable() {
		effect = policy.Deny
	}
	return effect
}

// Callback returns the access callback to install on the engine
// connection. A Deny response aborts the statement's compilation; the
// denied event is captured so the surfaced error can carry the refused
// action and table.
func (e *Engine) Callback() sqlite.AccessFunc {
	return func(op sqlite.Op, arg1, arg2, database string) int {
		ev := eventFor(op, arg1, arg2, database)
		switch e.Decide(ev) {
		case policy.Deny:
			e.capture(ev)
			e.logger.Warn("access denied",
				"action", ev.Action.String(),
				"object", ev.Object,
				"database", ev.Database)
			return sqlite.AuthDeny
		case policy.Ignore:
			e.logger.Debug("access elided",
				"object", ev.Object,
				"column", ev.Column)
			return sqlite.AuthIgnore
		default:
			return sqlite.AuthOK
		}
	}
}

// Reset clears any captured denial. Call before each compilation.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.denied = nil
	e.mu.Unlock()
}

// Denied returns the event that aborted the last compilation, or nil.
// The first denial wins; the engine stops issuing access checks for a
// statement once one is refused.
func (e *Engine) Denied() *AccessEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.denied
}

func (e *Engine) capture(ev AccessEvent) {
	e.mu.Lock()
	if e.denied == nil {
		e.denied = &ev
	}
	e.mu.Unlock()
}
