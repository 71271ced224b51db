// Package dberr normalizes failures into a classified error the caller
// can branch on: authorization denials, engine-reported failures, and
// operations on closed handles.
package dberr

import (
	"errors"
	"fmt"

	"github.com/gatedb/gatedb/pkg/sqlite"
)

// Kind partitions failures by how a caller should treat them.
type Kind int

const (
	// KindEngine covers failures reported by the SQL engine: constraint
	// violations, syntax errors, I/O failures, lock contention. A subset
	// (busy, locked) is retryable.
	KindEngine Kind = iota
	// KindAuthorization marks a policy denial raised during statement
	// compilation. Retrying is pointless; the error carries the denied
	// action and table.
	KindAuthorization
	// KindNotOpen marks an operation on a closed or never-opened
	// connection, or a statement whose connection has closed. Usually a
	// programming error.
	KindNotOpen
)

// String implements the Stringer interface for Kind
func (k Kind) String() string {
	switch k {
	case KindEngine:
		return "ENGINE"
	case KindAuthorization:
		return "AUTHORIZATION"
	case KindNotOpen:
		return "NOT_OPEN"
	default:
		return fmt.Sprintf("KIND(%d)", int(k))
	}
}

// Error is a classified failure. Code is the symbolic engine result code
// and RawCode its numeric form; for authorization denials Action and
// Table identify what was refused.
type Error struct {
	Kind    Kind
	Code    string
	RawCode int
	Message string
	Action  string
	Table   string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindAuthorization && e.Table != "":
		return fmt.Sprintf("%s: %s: %s on %q not authorized", e.Kind, e.Code, e.Action, e.Table)
	case e.Kind == KindAuthorization:
		return fmt.Sprintf("%s: %s: %s not authorized", e.Kind, e.Code, e.Action)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %s (%v)", e.Kind, e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient lock contention
// worth retrying. Authorization and NotOpen failures are never
// retryable.
func (e *Error) Retryable() bool {
	return e.Kind == KindEngine && (e.Code == "SQLITE_BUSY" || e.Code == "SQLITE_LOCKED")
}

// NotOpen builds the classified error for an operation on a closed
// handle. what names the handle kind, e.g. "connection" or "statement".
func NotOpen(what string) *Error {
	return &Error{
		Kind:    KindNotOpen,
		Code:    "NOT_OPEN",
		Message: fmt.Sprintf("%s is not open", what),
	}
}

// Denied builds the classified error for a policy denial of action on
// table. table may be empty for accesses with no associated object.
func Denied(action, table string) *Error {
	msg := fmt.Sprintf("%s not authorized", action)
	if table != "" {
		msg = fmt.Sprintf("%s on %q not authorized", action, table)
	}
	return &Error{
		Kind:    KindAuthorization,
		Code:    "SQLITE_AUTH",
		RawCode: sqlite.CodeAuth,
		Message: msg,
		Action:  action,
		Table:   table,
	}
}

// Engine builds a classified engine failure with an explicit code, for
// failures this layer detects itself (e.g. parameter count mismatch).
func Engine(code string, raw int, message string) *Error {
	return &Error{Kind: KindEngine, Code: code, RawCode: raw, Message: message}
}

// Classify normalizes err. Already-classified errors pass through
// unchanged, so an authorization denial is never downgraded by a later
// wrapping step. Engine-reported errors keep their symbolic and numeric
// codes; anything else becomes a generic engine failure.
func Classify(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	if sym, raw, ok := sqlite.ErrorCode(err); ok {
		return &Error{
			Kind:    KindEngine,
			Code:    sym,
			RawCode: raw,
			Message: err.Error(),
			Err:     err,
		}
	}
	return &Error{
		Kind:    KindEngine,
		Code:    "SQLITE_ERROR",
		RawCode: 1,
		Message: err.Error(),
		Err:     err,
	}
}
