package dberr

import (
	"errors"
	"fmt"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEngineError(t *testing.T) {
	raw := sqlite3.Error{Code: sqlite3.ErrConstraint}
	ce := Classify(raw)

	assert.Equal(t, KindEngine, ce.Kind)
	assert.Equal(t, "SQLITE_CONSTRAINT", ce.Code)
	assert.Equal(t, 19, ce.RawCode)
	assert.False(t, ce.Retryable())
	assert.ErrorAs(t, ce, &sqlite3.Error{})
}

func TestClassifyWrappedEngineError(t *testing.T) {
	wrapped := fmt.Errorf("step: %w", sqlite3.Error{Code: sqlite3.ErrBusy})
	ce := Classify(wrapped)

	assert.Equal(t, KindEngine, ce.Kind)
	assert.Equal(t, "SQLITE_BUSY", ce.Code)
	assert.True(t, ce.Retryable())
}

func TestClassifyUnknownError(t *testing.T) {
	ce := Classify(errors.New("boom"))

	assert.Equal(t, KindEngine, ce.Kind)
	assert.Equal(t, "SQLITE_ERROR", ce.Code)
}

func TestClassifyNeverDowngradesAuthorization(t *testing.T) {
	denied := Denied("SELECT", "secret")
	rewrapped := Classify(fmt.Errorf("prepare: %w", denied))

	assert.Equal(t, KindAuthorization, rewrapped.Kind)
	assert.Equal(t, "SELECT", rewrapped.Action)
	assert.Equal(t, "secret", rewrapped.Table)
}

func TestDeniedPayload(t *testing.T) {
	ce := Denied("INSERT", "users")

	assert.Equal(t, KindAuthorization, ce.Kind)
	assert.Equal(t, "SQLITE_AUTH", ce.Code)
	assert.Equal(t, 23, ce.RawCode)
	assert.Equal(t, "INSERT", ce.Action)
	assert.Equal(t, "users", ce.Table)
	assert.False(t, ce.Retryable())
	assert.Contains(t, ce.Error(), "users")

	// Table-less denial reads sensibly too.
	assert.Contains(t, Denied("TRANSACTION", "").Error(), "TRANSACTION")
}

func TestNotOpen(t *testing.T) {
	ce := NotOpen("connection")

	assert.Equal(t, KindNotOpen, ce.Kind)
	assert.False(t, ce.Retryable())
	assert.Contains(t, ce.Error(), "connection")
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	var ce *Error
	err := fmt.Errorf("outer: %w", NotOpen("statement"))

	require.True(t, errors.As(err, &ce))
	assert.Equal(t, KindNotOpen, ce.Kind)
}
