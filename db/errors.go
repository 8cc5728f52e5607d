package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("userdb/db: record not found")

	// ErrDuplicateKey is returned on unique constraint violations —
	// for this store, a second record with an already-registered email.
	ErrDuplicateKey = errors.New("userdb/db: duplicate key")

	// ErrCheckViolation is returned when a CHECK constraint is violated.
	ErrCheckViolation = errors.New("userdb/db: check constraint violation")

	// ErrTimeout is returned when a statement exceeds its deadline.
	ErrTimeout = errors.New("userdb/db: query timeout")

	// ErrConnectionFailed is returned when the driver cannot reach the store.
	ErrConnectionFailed = errors.New("userdb/db: connection failed")
)

// ─────────────────────────────────────────────────────────────────────────────
// Error helpers — use errors.Is() for type-safe checks
// ─────────────────────────────────────────────────────────────────────────────

func IsNotFound(err error) bool       { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool   { return errors.Is(err, ErrDuplicateKey) }
func IsCheckViolation(err error) bool { return errors.Is(err, ErrCheckViolation) }
func IsTimeout(err error) bool        { return errors.Is(err, ErrTimeout) }

// ─────────────────────────────────────────────────────────────────────────────
// DBError — rich error type preserving original driver error
// ─────────────────────────────────────────────────────────────────────────────

// DBError wraps a sentinel error with the original driver error so callers can
// either use errors.Is(err, ErrDuplicateKey) for simple checks or inspect the
// raw driver error for additional context.
type DBError struct {
	// Sentinel is one of the package-level Err* variables.
	Sentinel error
	// Cause is the original driver error.
	Cause error
	// Message is an optional human-readable hint.
	Message string
}

func (e *DBError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Sentinel, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// ─────────────────────────────────────────────────────────────────────────────
// ErrorMapper interface
// ─────────────────────────────────────────────────────────────────────────────

// ErrorMapper translates raw driver errors into the package's sentinel errors.
type ErrorMapper interface {
	Map(err error) error
}

// ErrorMapperFunc is a convenience adapter from a function to ErrorMapper.
type ErrorMapperFunc func(error) error

func (f ErrorMapperFunc) Map(err error) error { return f(err) }

// ─────────────────────────────────────────────────────────────────────────────
// Default mapper — stdlib sentinels, context errors, SQLite driver errors
// ─────────────────────────────────────────────────────────────────────────────

// DefaultErrorMapper returns the mapper installed by Open. The embedded store
// is SQLite; mattn/go-sqlite3 does not export typed errors for constraint
// failures, so constraint mapping is string-based.
func DefaultErrorMapper() ErrorMapper {
	return ErrorMapperFunc(defaultMap)
}

func defaultMap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	// Already mapped — do not double-wrap.
	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	if mapped := mapSQLiteError(err); mapped != nil {
		return mapped
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}

	return err
}

func mapSQLiteError(err error) error {
	s := err.Error()
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		return &DBError{Sentinel: ErrDuplicateKey, Cause: err}
	case strings.Contains(s, "CHECK constraint failed"):
		return &DBError{Sentinel: ErrCheckViolation, Cause: err}
	case strings.Contains(s, "unable to open database file"):
		return &DBError{Sentinel: ErrConnectionFailed, Cause: err}
	}
	return nil
}
