// db/db_test.go — unit tests for the store access layer.
// Uses an in-memory SQLite database; no external services required.
//
// Run:  go test ./db/... -v -race
package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Skryldev/userdb/db"
	_ "github.com/mattn/go-sqlite3"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(db.Config{
		DSN:        ":memory:",
		DriverName: "sqlite3",
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{}),
		},
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			address       TEXT NOT NULL,
			password      TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'active',
			login_history TEXT NOT NULL DEFAULT '[]',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		)`)
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return d
}

func insertUser(t *testing.T, d *db.DB, name, email string) {
	t.Helper()
	now := time.Now()
	_, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email, address, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, email, "1 Main St", "Secret1!", now, now,
	)
	if err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Open / Ping
// ─────────────────────────────────────────────────────────────────────────────

func TestOpen(t *testing.T) {
	d := newTestDB(t)
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	if _, err := db.Open(db.Config{DSN: "", DriverName: "sqlite3"}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
	if _, err := db.Open(db.Config{DSN: ":memory:"}); err == nil {
		t.Fatal("expected error for empty DriverName")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Exec / QueryRow
// ─────────────────────────────────────────────────────────────────────────────

func TestExec_Insert(t *testing.T) {
	d := newTestDB(t)
	now := time.Now()

	res, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email, address, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"Alice", "alice@gmail.com", "1 Main St", "Secret1!", now, now,
	)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	n, _ := res.RowsAffected()
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}
	id, _ := res.LastInsertId()
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}
}

func TestQueryRow_Scan(t *testing.T) {
	d := newTestDB(t)
	insertUser(t, d, "Bob", "bob@gmail.com")

	var name, status string
	err := d.QueryRow(context.Background(),
		`SELECT name, status FROM users WHERE email = ?`, "bob@gmail.com").
		Scan(&name, &status)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if name != "Bob" || status != "active" {
		t.Fatalf("unexpected values: name=%q status=%q", name, status)
	}
}

func TestQueryRow_NotFound(t *testing.T) {
	d := newTestDB(t)

	var name string
	err := d.QueryRow(context.Background(),
		`SELECT name FROM users WHERE id = ?`, 99999).Scan(&name)
	if !db.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Query — multiple rows
// ─────────────────────────────────────────────────────────────────────────────

func TestQuery_MultipleRows(t *testing.T) {
	d := newTestDB(t)
	insertUser(t, d, "Alice", "alice@gmail.com")
	insertUser(t, d, "Bob", "bob@gmail.com")
	insertUser(t, d, "Carol", "carol@gmail.com")

	rows, err := d.Query(context.Background(), `SELECT name FROM users ORDER BY id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err: %v", err)
	}
	if len(names) != 3 || names[0] != "Alice" {
		t.Fatalf("unexpected rows: %v", names)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error mapping — DuplicateKey (the email unique index)
// ─────────────────────────────────────────────────────────────────────────────

func TestErrorMapper_DuplicateKey(t *testing.T) {
	d := newTestDB(t)
	insertUser(t, d, "Alice", "dup@gmail.com")

	now := time.Now()
	_, err := d.Exec(context.Background(),
		`INSERT INTO users (name, email, address, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"AliceAgain", "dup@gmail.com", "2 Side St", "Secret2!", now, now,
	)
	if !db.IsDuplicateKey(err) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	var dbErr *db.DBError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *DBError, got %T", err)
	}
	if dbErr.Cause == nil {
		t.Fatal("expected driver cause to be preserved")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ExecTx — commit, rollback on error, rollback on panic
// ─────────────────────────────────────────────────────────────────────────────

func TestExecTx_Commit(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (name, email, address, password, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			"Dave", "dave@gmail.com", "4 Oak Rd", "Secret4!", now, now,
		)
		return err
	})
	if err != nil {
		t.Fatalf("tx commit: %v", err)
	}

	var n int
	_ = d.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, "dave@gmail.com").Scan(&n)
	if n != 1 {
		t.Fatalf("expected 1 committed row, got %d", n)
	}
}

func TestExecTx_RollbackOnError(t *testing.T) {
	d := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	sentinelErr := errors.New("intentional failure")

	err := d.ExecTx(ctx, func(tx *db.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (name, email, address, password, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			"Eve", "eve@gmail.com", "5 Elm St", "Secret5!", now, now,
		)
		if err != nil {
			return err
		}
		return sentinelErr // force rollback
	})
	if !errors.Is(err, sentinelErr) {
		t.Fatalf("expected sentinelErr, got %v", err)
	}

	var n int
	_ = d.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, "eve@gmail.com").Scan(&n)
	if n != 0 {
		t.Fatalf("expected 0 rows after rollback, got %d", n)
	}
}

func TestExecTx_RollbackOnPanic(t *testing.T) {
	d := newTestDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
	}()

	_ = d.ExecTx(context.Background(), func(tx *db.Tx) error {
		panic("test panic")
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Hooks — verify they are called
// ─────────────────────────────────────────────────────────────────────────────

type countingHook struct {
	before int
	after  int
}

func (h *countingHook) BeforeQuery(_ context.Context, _ string, _ []any) { h.before++ }
func (h *countingHook) AfterQuery(_ context.Context, _ string, _ []any, _ time.Duration, _ error) {
	h.after++
}

func TestHooks_CalledOnExec(t *testing.T) {
	hook := &countingHook{}
	d, err := db.Open(db.Config{
		DSN:        ":memory:",
		DriverName: "sqlite3",
		Hooks:      []db.Hook{hook},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	_, _ = d.Exec(context.Background(), `SELECT 1`)

	if hook.before != 1 || hook.after != 1 {
		t.Fatalf("hook not called: before=%d after=%d", hook.before, hook.after)
	}
}
