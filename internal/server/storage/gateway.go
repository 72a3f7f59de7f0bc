// Package storage owns the process-wide SQL connection pool. It hands out
// connections with a bounded acquire time and scopes transactions so that
// they are always committed or rolled back and their connection released.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Defaults matching the pool the diary has always run with.
const (
	DefaultMaxOpenConns   = 10
	DefaultAcquireTimeout = 3 * time.Second
)

// Options configures the pool.
type Options struct {
	Driver         string
	MaxOpenConns   int
	AcquireTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = DefaultMaxOpenConns
	}
	if o.AcquireTimeout <= 0 {
		o.AcquireTimeout = DefaultAcquireTimeout
	}
	return o
}

// Gateway wraps *sql.DB. It carries no business logic.
type Gateway struct {
	db   *sql.DB
	opts Options
}

// Open opens and pings a pool for the given driver and DSN.
func Open(ctx context.Context, dsn string, opts Options) (*Gateway, error) {
	opts = opts.withDefaults()

	switch opts.Driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	g := New(db, opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: db ping error: %v", common.ErrConnection, err)
	}

	return g, nil
}

// New wraps an already opened pool and applies the pool limits.
func New(db *sql.DB, opts Options) *Gateway {
	opts = opts.withDefaults()
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxOpenConns)
	return &Gateway{db: db, opts: opts}
}

// sqliteDSN turns on foreign keys and a busy timeout for every pooled
// connection unless the DSN already sets pragmas. Timestamps are written in
// the sortable SQLite text format. Transactions take the write lock up front
// so that concurrent writers wait on busy_timeout instead of failing on lock
// upgrade.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_time_format", "sqlite")
	params.Add("_txlock", "immediate")

	if strings.Contains(dsn, "?") {
		return dsn + "&" + params.Encode()
	}
	return dsn + "?" + params.Encode()
}

// Driver returns the database/sql driver name of the pool.
func (g *Gateway) Driver() string {
	return g.opts.Driver
}

// DB returns the underlying pool.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

// Acquire takes a dedicated connection from the pool, waiting at most
// AcquireTimeout. The caller must Close it.
func (g *Gateway) Acquire(ctx context.Context) (*sql.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, g.opts.AcquireTimeout)
	defer cancel()

	conn, err := g.db.Conn(acquireCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %v", common.ErrConnection, err)
	}
	return conn, nil
}

// Run executes fn on a freshly acquired connection outside any transaction.
func (g *Gateway) Run(ctx context.Context, fn func(ctx context.Context, db dbx.DBTX) error) error {
	conn, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}

// WithTx runs fn inside a read-write transaction.
//
// Once begun, the transaction is detached from ctx cancellation: it either
// commits or rolls back, it is never abandoned half way.
func (g *Gateway) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return g.withTx(ctx, nil, fn)
}

// WithSnapshot runs fn inside a read-only transaction so that several reads
// observe the same database state (repeatable read on PostgreSQL; SQLite
// transactions are serializable already).
func (g *Gateway) WithSnapshot(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return g.withTx(ctx, g.snapshotOptions(), fn)
}

func (g *Gateway) snapshotOptions() *sql.TxOptions {
	if g.opts.Driver == DriverPostgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

func (g *Gateway) withTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	conn, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return dbx.WithTx(context.WithoutCancel(ctx), conn, opts, fn)
}

// Ping checks that the database is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.Run(ctx, func(ctx context.Context, db dbx.DBTX) error {
		var one int
		return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
}

// Close closes the pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}
