// Package sqlite is the boundary to the SQL engine. It wraps a single
// native SQLite connection with prepare/bind/execute primitives and the
// engine's compile-time access callback, and translates engine error
// codes. No other package imports the driver.
package sqlite

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Access callback responses, as understood by the engine: continue
// compiling, abort compilation, or elide the referenced column.
const (
	AuthOK     = 0
	AuthDeny   = 1
	AuthIgnore = 2
)

// AccessFunc receives one compile-time access check. arg1 and arg2 carry
// op-dependent detail (typically table and column), database names the
// schema being touched. The return value must be AuthOK, AuthDeny, or
// AuthIgnore.
//
// The driver does not surface the innermost trigger or view name, so
// nested accesses arrive indistinguishable from top-level ones; a denial
// still aborts the whole outer compilation.
type AccessFunc func(op Op, arg1, arg2, database string) int

// Conn is one native engine connection. It is not safe for concurrent
// use; callers serialize access.
type Conn struct {
	raw *sqlite3.SQLiteConn
}

var sqliteDriver = &sqlite3.SQLiteDriver{}

// Open opens a native connection to the database at dsn. dsn is a file
// path, ":memory:", or a file: URI with driver options.
func Open(dsn string) (*Conn, error) {
	dc, err := sqliteDriver.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}
	raw, ok := dc.(*sqlite3.SQLiteConn)
	if !ok {
		dc.Close()
		return nil, fmt.Errorf("sqlite: unexpected driver connection %T", dc)
	}
	return &Conn{raw: raw}, nil
}

// SetAccessCallback installs fn as the compile-time access callback for
// every subsequent Prepare on this connection. A nil fn permits all
// access.
func (c *Conn) SetAccessCallback(fn AccessFunc) {
	if fn == nil {
		c.raw.RegisterAuthorizer(func(int, string, string, string) int { return AuthOK })
		return
	}
	c.raw.RegisterAuthorizer(func(op int, arg1, arg2, arg3 string) int {
		return fn(Op(op), arg1, arg2, arg3)
	})
}

// Prepare compiles query into an executable statement. Compilation runs
// the access callback for every table, column, pragma, and function the
// query touches.
func (c *Conn) Prepare(query string) (*Stmt, error) {
	ds, err := c.raw.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{raw: ds}, nil
}

// Close releases the native connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// Stmt is a compiled statement tied to the Conn that prepared it.
type Stmt struct {
	raw driver.Stmt
}

// NumInput returns the number of parameter slots the compiled plan
// expects.
func (s *Stmt) NumInput() int {
	return s.raw.NumInput()
}

// Exec runs the statement to completion without collecting rows.
func (s *Stmt) Exec(ctx context.Context, args []driver.Value) (rowsAffected, lastInsertID int64, err error) {
	ec, ok := s.raw.(driver.StmtExecContext)
	if !ok {
		return 0, 0, fmt.Errorf("sqlite: statement does not support execution")
	}
	res, err := ec.ExecContext(ctx, named(args))
	if err != nil {
		return 0, 0, err
	}
	rowsAffected, err = res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	lastInsertID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	return rowsAffected, lastInsertID, nil
}

// Query runs the statement and drains its result set.
func (s *Stmt) Query(ctx context.Context, args []driver.Value) (columns []string, rows [][]any, err error) {
	qc, ok := s.raw.(driver.StmtQueryContext)
	if !ok {
		return nil, nil, fmt.Errorf("sqlite: statement does not support queries")
	}
	dr, err := qc.QueryContext(ctx, named(args))
	if err != nil {
		return nil, nil, err
	}
	defer dr.Close()

	columns = dr.Columns()
	dest := make([]driver.Value, len(columns))
	for {
		if err := dr.Next(dest); err != nil {
			if err == io.EOF {
				return columns, rows, nil
			}
			return nil, nil, err
		}
		row := make([]any, len(dest))
		for i, v := range dest {
			// The driver may reuse byte buffers between rows.
			if b, ok := v.([]byte); ok {
				row[i] = append([]byte(nil), b...)
			} else {
				row[i] = v
			}
		}
		rows = append(rows, row)
	}
}

// Close releases the compiled statement.
func (s *Stmt) Close() error {
	return s.raw.Close()
}

func named(args []driver.Value) []driver.NamedValue {
	out := make([]driver.NamedValue, len(args))
	for i, v := range args {
		out[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return out
}
