// Package gatedb opens access-controlled SQLite connections and executes
// prepared statements through a single compile, authorize, bind, run
// pipeline, in either blocking or deferred mode.
package gatedb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gatedb/gatedb/internal/serial"
	"github.com/gatedb/gatedb/pkg/authorizer"
	"github.com/gatedb/gatedb/pkg/dberr"
	"github.com/gatedb/gatedb/pkg/policy"
	"github.com/gatedb/gatedb/pkg/sqlinfo"
	"github.com/gatedb/gatedb/pkg/sqlite"
)

// ErrStatementsOutstanding is returned by AttachPolicy and DetachPolicy
// while statements compiled under the current policy have not yet been
// executed or closed.
var ErrStatementsOutstanding = errors.New("gatedb: statements outstanding; policy can only change between statements")

// Connection owns one native engine handle, an optional attached
// policy, and a worker goroutine that serializes every compile and
// execute cycle. A connection must outlive the statements prepared
// from it; Close invalidates them.
type Connection struct {
	id        string
	cfg       Config
	logger    *slog.Logger
	connector Connector
	syncer    Syncer

	runner *serial.Runner

	mu     sync.Mutex
	conn   *sqlite.Conn
	closed bool
	policy *policy.Policy
	engine *authorizer.Engine
	holds  int

	syncCancel context.CancelFunc
	syncGroup  *errgroup.Group
}

// Open establishes a connection per cfg. For ModeReplica with a Syncer
// configured, the replica syncs once before the connection is usable
// and then periodically per cfg.SyncInterval until Close.
func Open(cfg Config, opts ...Option) (*Connection, error) {
	c := &Connection{
		id:        uuid.NewString(),
		cfg:       cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		connector: localConnector{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("connection", c.id)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	conn, err := c.connector.Connect(cfg)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.runner = serial.NewRunner(16)

	if cfg.Mode == ModeReplica && c.syncer != nil {
		if err := c.syncer.Sync(context.Background()); err != nil {
			c.runner.Stop()
			conn.Close()
			return nil, fmt.Errorf("gatedb: initial replica sync: %w", err)
		}
		if cfg.SyncInterval > 0 {
			c.startSyncLoop(cfg.SyncInterval)
		}
	}

	c.logger.Debug("connection opened", "mode", cfg.Mode.String(), "path", cfg.Path)
	return c, nil
}

func (c *Connection) startSyncLoop(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	c.syncCancel = cancel
	c.syncGroup = g
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := c.syncer.Sync(ctx); err != nil {
					c.logger.Warn("replica sync failed", "error", err)
				}
			}
		}
	})
}

// ID returns the connection's identifier, as used in log records.
func (c *Connection) ID() string {
	return c.id
}

// Policy returns the attached policy, or nil when access is
// unrestricted.
func (c *Connection) Policy() *policy.Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy
}

// AttachPolicy installs p as this connection's access policy. Every
// subsequent Prepare authorizes each table, column, and pragma access
// against it. Attachment is only legal while no statement compiled
// under the previous policy is still awaiting its first execution.
func (c *Connection) AttachPolicy(p *policy.Policy) error {
	if p == nil {
		return c.DetachPolicy()
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return dberr.NotOpen("connection")
	}
	if c.holds > 0 {
		c.mu.Unlock()
		return ErrStatementsOutstanding
	}
	engine := authorizer.New(p, c.logger)
	c.policy = p
	c.engine = engine
	conn := c.conn
	c.mu.Unlock()

	if err := c.run(func() { conn.SetAccessCallback(engine.Callback()) }); err != nil {
		return dberr.NotOpen("connection")
	}
	return nil
}

// DetachPolicy removes the attached policy, restoring unrestricted
// access. Same legality rule as AttachPolicy.
func (c *Connection) DetachPolicy() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return dberr.NotOpen("connection")
	}
	if c.holds > 0 {
		c.mu.Unlock()
		return ErrStatementsOutstanding
	}
	c.policy = nil
	c.engine = nil
	conn := c.conn
	c.mu.Unlock()

	if err := c.run(func() { conn.SetAccessCallback(nil) }); err != nil {
		return dberr.NotOpen("connection")
	}
	return nil
}

// Prepare compiles query on the connection's worker. With a policy
// attached, the engine raises an access check for every table, column,
// pragma, and function the query touches, at every nesting level; one
// denial aborts the whole compilation and the returned error carries
// the refused action and table.
func (c *Connection) Prepare(query string) (*Statement, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, dberr.NotOpen("connection")
	}
	conn := c.conn
	engine := c.engine
	c.mu.Unlock()

	var stmt *Statement
	var prepErr error
	err := c.run(func() {
		if engine != nil {
			engine.Reset()
		}
		raw, err := conn.Prepare(query)
		if err != nil {
			if engine != nil && sqlite.IsAuthError(err) {
				if denied := engine.Denied(); denied != nil {
					prepErr = dberr.Denied(denied.Action.String(), denied.Object)
					return
				}
			}
			prepErr = dberr.Classify(err)
			return
		}
		stmt = &Statement{
			conn:        c,
			query:       query,
			returnsRows: sqlinfo.ReturnsRows(query),
			state:       StatePrepared,
			raw:         raw,
		}
		c.mu.Lock()
		c.holds++
		c.mu.Unlock()
	})
	if err != nil {
		return nil, dberr.NotOpen("connection")
	}
	if prepErr != nil {
		return nil, prepErr
	}
	return stmt, nil
}

// Exec prepares query, runs it once in blocking mode, and releases the
// statement.
func (c *Connection) Exec(query string, params ...any) (*Outcome, error) {
	stmt, err := c.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.Run(params...)
}

// Query is Exec for row-producing statements; the two share one
// pipeline and differ only in name.
func (c *Connection) Query(query string, params ...any) (*Outcome, error) {
	return c.Exec(query, params...)
}

// Close tears down the connection: the replica sync loop stops, queued
// executions finish, and the native handle is released. Statements
// prepared from this connection fail with NotOpen afterwards.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	cancel := c.syncCancel
	group := c.syncGroup
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("replica sync loop exited", "error", err)
		}
	}

	var closeErr error
	c.runner.Run(func() { closeErr = conn.Close() })
	c.runner.Stop()
	c.logger.Debug("connection closed")
	return closeErr
}

// isClosed reports whether Close has begun.
func (c *Connection) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// releaseHold marks one prepared statement as executed or closed,
// re-permitting policy changes once no holds remain.
func (c *Connection) releaseHold() {
	c.mu.Lock()
	if c.holds > 0 {
		c.holds--
	}
	c.mu.Unlock()
}

// submit queues a task on the connection's worker.
func (c *Connection) submit(task func()) error {
	return c.runner.Submit(task)
}

// run queues a task and waits for it.
func (c *Connection) run(task func()) error {
	return c.runner.Run(task)
}
