package gatedb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatedb/gatedb/pkg/sqlite"
)

// Mode selects how a connection reaches its database.
type Mode int

const (
	// ModeLocal opens a database file (or ":memory:") directly.
	ModeLocal Mode = iota
	// ModeRemote executes against a remote primary. Handle acquisition
	// is the transport layer's concern; a Connector must be supplied.
	ModeRemote
	// ModeReplica opens a local file kept in sync with a remote
	// primary. The sync protocol lives behind the Syncer interface.
	ModeReplica
)

// String implements the Stringer interface for Mode
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	case ModeReplica:
		return "replica"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config describes the database a connection should open.
type Config struct {
	Mode Mode
	// Path is the local database file for ModeLocal and ModeReplica.
	Path string
	// PrimaryURL locates the remote primary for ModeRemote and
	// ModeReplica.
	PrimaryURL string
	// AuthToken authenticates against the remote primary.
	AuthToken string
	// SyncInterval is how often a replica pulls from its primary. Zero
	// disables periodic sync (the replica still syncs once on open when
	// a Syncer is configured).
	SyncInterval time.Duration
}

func (c Config) validate() error {
	switch c.Mode {
	case ModeLocal:
		if c.Path == "" {
			return fmt.Errorf("gatedb: local mode requires a path")
		}
	case ModeRemote:
		if c.PrimaryURL == "" {
			return fmt.Errorf("gatedb: remote mode requires a primary URL")
		}
	case ModeReplica:
		if c.Path == "" || c.PrimaryURL == "" {
			return fmt.Errorf("gatedb: replica mode requires a path and a primary URL")
		}
	default:
		return fmt.Errorf("gatedb: unknown mode %d", int(c.Mode))
	}
	return nil
}

// Connector acquires a native engine handle for a config. The default
// connector only opens local files; remote transports plug in here.
type Connector interface {
	Connect(cfg Config) (*sqlite.Conn, error)
}

// Syncer brings an embedded replica up to date with its primary. The
// wire protocol is out of this library's scope.
type Syncer interface {
	Sync(ctx context.Context) error
}

type localConnector struct{}

func (localConnector) Connect(cfg Config) (*sqlite.Conn, error) {
	if cfg.Mode == ModeRemote {
		return nil, fmt.Errorf("gatedb: remote mode requires a Connector (use WithConnector)")
	}
	return sqlite.Open(cfg.Path)
}

// Option adjusts how a connection is opened.
type Option func(*Connection)

// WithLogger attaches a structured logger. Denied accesses and replica
// sync failures are logged through it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) { c.logger = logger }
}

// WithConnector replaces the default local-file connector, typically
// with a remote transport.
func WithConnector(connector Connector) Option {
	return func(c *Connection) { c.connector = connector }
}

// WithSyncer supplies the replica sync implementation. Ignored outside
// ModeReplica.
func WithSyncer(syncer Syncer) Option {
	return func(c *Connection) { c.syncer = syncer }
}
