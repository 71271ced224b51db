// Package gatedb provides access-controlled SQLite connections: every
// prepared statement is authorized table-by-table against an attached
// policy at compile time, and executes in blocking or deferred mode.
package gatedb

import (
	"github.com/gatedb/gatedb/pkg/gatedb"
	"github.com/gatedb/gatedb/pkg/policy"
)

// Open establishes a connection per cfg.
func Open(cfg gatedb.Config, opts ...gatedb.Option) (*gatedb.Connection, error) {
	return gatedb.Open(cfg, opts...)
}

// Local opens a local database file with no policy attached.
func Local(path string, opts ...gatedb.Option) (*gatedb.Connection, error) {
	return gatedb.Open(gatedb.Config{Mode: gatedb.ModeLocal, Path: path}, opts...)
}

// Re-export types for convenience
type (
	Connection = gatedb.Connection
	Statement  = gatedb.Statement
	Outcome    = gatedb.Outcome
	Future     = gatedb.Future
	Config     = gatedb.Config
	Policy     = policy.Policy
)
