// Package db provides the embedded-store access layer for the user
// database. It is a thin, SQL-first wrapper over database/sql — all SQL
// lives in the repositories, explicit and reviewable; this package only
// adds context-aware helpers, hook dispatch, unified error mapping, and
// transaction management.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Config
// ─────────────────────────────────────────────────────────────────────────────

// Config holds all options for opening and managing the connection pool.
// For the default single-file SQLite store most settings can stay zero.
type Config struct {
	// DSN is the driver-specific data-source name. For sqlite3 this is the
	// database file path, or ":memory:" for an ephemeral store.
	DSN string

	// DriverName is the database/sql driver, normally "sqlite3".
	DriverName string

	// Pool settings. SQLite is effectively single-writer; leave these at
	// zero unless pointing at a server-backed database.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Default query timeout applied when no deadline is set on the context.
	// Zero means no default timeout.
	DefaultTimeout time.Duration

	// Hooks executed around every statement (logging, timing).
	// All hooks are optional; nil entries are silently skipped.
	Hooks []Hook
}

// ─────────────────────────────────────────────────────────────────────────────
// DB — the central type
// ─────────────────────────────────────────────────────────────────────────────

// DB is a thin, concurrency-safe wrapper around *sql.DB.
//
// All methods accept a context.Context so callers always control timeouts
// and cancellation. The underlying *sql.DB is always accessible via Raw().
type DB struct {
	sqldb  *sql.DB
	cfg    Config
	hooks  hookChain
	errMap ErrorMapper
}

// Open opens the store described by cfg and verifies connectivity with Ping.
// Callers are responsible for calling Close() when the application shuts down.
func Open(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("userdb/db: DSN must not be empty")
	}
	if cfg.DriverName == "" {
		return nil, fmt.Errorf("userdb/db: DriverName must not be empty")
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("userdb/db: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	d := &DB{
		sqldb:  sqldb,
		cfg:    cfg,
		hooks:  newHookChain(cfg.Hooks),
		errMap: DefaultErrorMapper(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("userdb/db: ping: %w", err)
	}

	return d, nil
}

// MustOpen is like Open but panics on error. Useful in main() initialisation.
func MustOpen(cfg Config) *DB {
	d, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Raw returns the underlying *sql.DB for advanced use cases.
// Prefer the wrapper methods where possible.
func (d *DB) Raw() *sql.DB { return d.sqldb }

// SetErrorMapper replaces the default error mapper with a custom one.
func (d *DB) SetErrorMapper(m ErrorMapper) { d.errMap = m }

// Close closes all pooled connections and frees resources.
// Safe to call multiple times.
func (d *DB) Close() error { return d.sqldb.Close() }

// Ping verifies that the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	ctx = d.applyDefaultTimeout(ctx)
	return d.sqldb.PingContext(ctx)
}

// Stats returns pool statistics for monitoring.
func (d *DB) Stats() sql.DBStats { return d.sqldb.Stats() }

// ─────────────────────────────────────────────────────────────────────────────
// Query execution helpers
// ─────────────────────────────────────────────────────────────────────────────

// Exec executes a statement that returns no rows (INSERT, UPDATE, DELETE, DDL).
// Errors are translated through the unified error mapper.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = d.applyDefaultTimeout(ctx)
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	res, err := d.sqldb.ExecContext(ctx, query, args...)
	err = d.mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a query that returns rows.
// The caller MUST close the returned *sql.Rows.
func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx = d.applyDefaultTimeout(ctx)
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	rows, err := d.sqldb.QueryContext(ctx, query, args...)
	err = d.mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query expected to return at most one row.
// Use Scan() on the returned *Row; ErrNotFound is returned when no row
// matches.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *Row {
	ctx = d.applyDefaultTimeout(ctx)
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	raw := d.sqldb.QueryRowContext(ctx, query, args...)
	d.hooks.After(ctx, query, args, time.Since(start), nil) // err unknown until Scan
	return &Row{raw: raw, errMap: d.errMap}
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func (d *DB) applyDefaultTimeout(ctx context.Context) context.Context {
	if d.cfg.DefaultTimeout == 0 {
		return ctx
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx // caller already set a deadline
	}
	ctx, _ = context.WithTimeout(ctx, d.cfg.DefaultTimeout) //nolint:govet
	return ctx
}

func (d *DB) mapErr(err error) error {
	if err == nil {
		return nil
	}
	return d.errMap.Map(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Row — wraps *sql.Row to translate errors uniformly
// ─────────────────────────────────────────────────────────────────────────────

// Row wraps *sql.Row and maps errors through the unified error mapper.
type Row struct {
	raw    *sql.Row
	errMap ErrorMapper
}

// Scan copies columns from the matched row into dest values.
// ErrNotFound is returned when no row was found.
func (r *Row) Scan(dest ...any) error {
	err := r.raw.Scan(dest...)
	return r.errMap.Map(err)
}
