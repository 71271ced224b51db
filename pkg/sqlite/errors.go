package sqlite

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

var codeSymbols = map[sqlite3.ErrNo]string{
	sqlite3.ErrError:      "SQLITE_ERROR",
	sqlite3.ErrInternal:   "SQLITE_INTERNAL",
	sqlite3.ErrPerm:       "SQLITE_PERM",
	sqlite3.ErrAbort:      "SQLITE_ABORT",
	sqlite3.ErrBusy:       "SQLITE_BUSY",
	sqlite3.ErrLocked:     "SQLITE_LOCKED",
	sqlite3.ErrNomem:      "SQLITE_NOMEM",
	sqlite3.ErrReadonly:   "SQLITE_READONLY",
	sqlite3.ErrInterrupt:  "SQLITE_INTERRUPT",
	sqlite3.ErrIoErr:      "SQLITE_IOERR",
	sqlite3.ErrCorrupt:    "SQLITE_CORRUPT",
	sqlite3.ErrNotFound:   "SQLITE_NOTFOUND",
	sqlite3.ErrFull:       "SQLITE_FULL",
	sqlite3.ErrCantOpen:   "SQLITE_CANTOPEN",
	sqlite3.ErrProtocol:   "SQLITE_PROTOCOL",
	sqlite3.ErrEmpty:      "SQLITE_EMPTY",
	sqlite3.ErrSchema:     "SQLITE_SCHEMA",
	sqlite3.ErrTooBig:     "SQLITE_TOOBIG",
	sqlite3.ErrConstraint: "SQLITE_CONSTRAINT",
	sqlite3.ErrMismatch:   "SQLITE_MISMATCH",
	sqlite3.ErrMisuse:     "SQLITE_MISUSE",
	sqlite3.ErrNoLFS:      "SQLITE_NOLFS",
	sqlite3.ErrAuth:       "SQLITE_AUTH",
	sqlite3.ErrFormat:     "SQLITE_FORMAT",
	sqlite3.ErrRange:      "SQLITE_RANGE",
	sqlite3.ErrNotADB:     "SQLITE_NOTADB",
}

// Numeric engine result codes carried by errors this package reports but
// does not receive from the driver itself.
const (
	CodeRange = 25 // parameter index out of range
	CodeAuth  = 23 // authorization denied
)

// ErrorCode extracts the engine's symbolic and numeric result code from
// err. ok is false when err did not originate from the engine.
func ErrorCode(err error) (symbol string, raw int, ok bool) {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return "", 0, false
	}
	if s, found := codeSymbols[se.Code]; found {
		return s, int(se.Code), true
	}
	return fmt.Sprintf("SQLITE_ERROR(%d)", int(se.Code)), int(se.Code), true
}

// IsAuthError reports whether err is the engine's "not authorized"
// failure, raised when the access callback denied an access during
// compilation.
func IsAuthError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrAuth
}

// IsBusy reports whether err is a transient lock contention failure.
func IsBusy(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked)
}
