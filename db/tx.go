package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Tx — transaction wrapper
// ─────────────────────────────────────────────────────────────────────────────

// Tx is a thin wrapper around *sql.Tx that mirrors the DB API surface so that
// repository code can accept either *DB or *Tx via the Querier interface.
type Tx struct {
	sqltx  *sql.Tx
	hooks  hookChain
	errMap ErrorMapper
	cfg    Config
}

// Raw returns the underlying *sql.Tx for advanced use.
func (t *Tx) Raw() *sql.Tx { return t.sqltx }

// Exec executes a statement that does not return rows.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	res, err := t.sqltx.ExecContext(ctx, query, args...)
	err = t.mapErr(err)
	t.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a query returning rows. The caller MUST close *sql.Rows.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	rows, err := t.sqltx.QueryContext(ctx, query, args...)
	err = t.mapErr(err)
	t.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query expected to return at most one row.
func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	raw := t.sqltx.QueryRowContext(ctx, query, args...)
	t.hooks.After(ctx, query, args, time.Since(start), nil)
	return &Row{raw: raw, errMap: t.errMap}
}

func (t *Tx) mapErr(err error) error {
	if err == nil {
		return nil
	}
	return t.errMap.Map(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// ExecTx — the primary transaction helper on *DB
// ─────────────────────────────────────────────────────────────────────────────

// ExecTx starts a transaction, executes fn, and automatically commits on
// success or rolls back on error or panic. The registry never spans more than
// one record per transaction; this helper exists so schema setup and tests
// get all-or-nothing semantics.
func (d *DB) ExecTx(ctx context.Context, fn func(*Tx) error) (err error) {
	ctx = d.applyDefaultTimeout(ctx)

	sqltx, err := d.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return d.mapErr(err)
	}

	tx := &Tx{
		sqltx:  sqltx,
		hooks:  d.hooks,
		errMap: d.errMap,
		cfg:    d.cfg,
	}

	// Ensure rollback on panic or error.
	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()
			panic(p) // re-panic after rollback
		}
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil {
				err = fmt.Errorf("userdb/db: rollback failed (%v) after original error: %w", rbErr, err)
			}
		}
	}()

	err = fn(tx)
	if err != nil {
		return d.mapErr(err) // rollback handled by defer
	}

	if err = sqltx.Commit(); err != nil {
		return d.mapErr(err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Querier — the shared interface accepted by repositories
// ─────────────────────────────────────────────────────────────────────────────

// Querier is the minimal interface shared by both *DB and *Tx.
// Repository constructors accept Querier instead of *DB so they work
// seamlessly inside transactions.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *Row
}

// Verify at compile-time that both *DB and *Tx satisfy Querier.
var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)
