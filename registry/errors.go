package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrDuplicateEmail is returned by Create (and UpdateProfile) when the
	// store's unique email index rejects the write.
	ErrDuplicateEmail = errors.New("registry: email already registered")

	// ErrInvalidCredentials is returned when no record matches the given
	// email and password. Authenticate never distinguishes a missing account
	// from a wrong password.
	ErrInvalidCredentials = errors.New("registry: invalid email or password")

	// ErrAccountBlocked is returned when credentials match but the account
	// status is blocked. Deliberately distinct from ErrInvalidCredentials:
	// blocked-account messaging is informative by business rule, even though
	// it reveals the account exists.
	ErrAccountBlocked = errors.New("registry: account is blocked")

	// ErrNotFound is returned by SetStatus, UpdateProfile, and Delete when
	// the id does not exist.
	ErrNotFound = errors.New("registry: user not found")

	// ErrInvalidStatus is returned when a caller passes a status outside
	// the two-value enum. Reaching it is a caller bug.
	ErrInvalidStatus = errors.New("registry: invalid status")

	// ErrStorage wraps store-level failures (I/O, lost connection). It is a
	// generic unrecoverable-operation error, distinct from every business
	// error above; the underlying cause stays on the chain.
	ErrStorage = errors.New("registry: storage failure")
)

func IsDuplicateEmail(err error) bool     { return errors.Is(err, ErrDuplicateEmail) }
func IsInvalidCredentials(err error) bool { return errors.Is(err, ErrInvalidCredentials) }
func IsAccountBlocked(err error) bool     { return errors.Is(err, ErrAccountBlocked) }
func IsNotFound(err error) bool           { return errors.Is(err, ErrNotFound) }
func IsStorage(err error) bool            { return errors.Is(err, ErrStorage) }

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError — field-keyed, raised before any store access
// ─────────────────────────────────────────────────────────────────────────────

// ValidationError carries one message per offending input field. It is
// always returned before any store access, so a validation failure never
// leaves a partial write behind.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "registry: validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation returns the ValidationError on err's chain, or nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// storageErr tags a store failure with ErrStorage while keeping the cause.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
