// Package registry implements the local user registry: registration, login
// with history append, and the administrative record operations, all against
// a single embedded users store. The registry holds no state between calls —
// every operation re-reads the store or works from fresh input.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skryldev/userdb/db"
	"github.com/Skryldev/userdb/models"
	"github.com/Skryldev/userdb/repo"
)

// Registry exposes the registry operations over a UserRepository.
type Registry struct {
	users repo.UserRepository
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithClock replaces the timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New returns a Registry over users.
func New(users repo.UserRepository, opts ...Option) *Registry {
	r := &Registry{
		users: users,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

// Create validates the registration input and persists a new record with
// status=active and an empty login history, returning the assigned id.
// Validation failures come back as a field-keyed *ValidationError before any
// store access; an email collision comes back as ErrDuplicateEmail.
func (r *Registry) Create(ctx context.Context, p models.RegisterParams) (int64, error) {
	if ve := validateRegistration(p); ve != nil {
		return 0, ve
	}

	u, err := r.users.Insert(ctx, p)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateEmail, p.Email)
		}
		return 0, storageErr("insert user", err)
	}

	r.log.DebugContext(ctx, "registry: user registered", "id", u.ID, "email", u.Email)
	return u.ID, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Authenticate
// ─────────────────────────────────────────────────────────────────────────────

// Authenticate checks the login input shape, then scans the full table for a
// record whose email and password both match. No match fails with
// ErrInvalidCredentials — a deleted account is indistinguishable from a wrong
// password. A blocked match fails with ErrAccountBlocked and leaves the
// history untouched. An active match gets the current timestamp appended to
// its login history, and the updated record is returned together with an
// explicit Session the caller may persist.
//
// The scan is a deliberate design choice: the dataset is local and small, so
// no secondary index is required.
func (r *Registry) Authenticate(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	if ve := validateLogin(email, password); ve != nil {
		return nil, nil, ve
	}

	users, err := r.users.List(ctx)
	if err != nil {
		return nil, nil, storageErr("list users", err)
	}

	var match *models.User
	for _, u := range users {
		if u.Email == email && u.Password == password {
			match = u
			break
		}
	}
	if match == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if match.Status == models.StatusBlocked {
		return nil, nil, ErrAccountBlocked
	}

	loggedInAt := r.now()
	history := append(match.LoginHistory, loggedInAt.UTC().Format(time.RFC3339))
	if err := r.users.SetLoginHistory(ctx, match.ID, history); err != nil {
		return nil, nil, storageErr("append login history", err)
	}
	match.LoginHistory = history

	r.log.DebugContext(ctx, "registry: login", "id", match.ID, "logins", len(history))
	return match, &models.Session{Name: match.Name, LoggedInAt: loggedInAt}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SetStatus
// ─────────────────────────────────────────────────────────────────────────────

// SetStatus flips the account between active and blocked. Any other value is
// a caller bug and fails with ErrInvalidStatus before touching the store.
// Setting the current status again still issues the write; the observable
// state is the same either way.
func (r *Registry) SetStatus(ctx context.Context, id int64, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := r.users.SetStatus(ctx, id, status); err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: id=%d", ErrNotFound, id)
		}
		return storageErr("set status", err)
	}

	r.log.DebugContext(ctx, "registry: status changed", "id", id, "status", status)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateProfile
// ─────────────────────────────────────────────────────────────────────────────

// UpdateProfile overwrites name, email, and address; password, status, and
// login history are untouched. No validation is re-applied to the new values
// — registration is strict, updates are not, and preserving that asymmetry
// is part of the contract.
func (r *Registry) UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) (*models.User, error) {
	u, err := r.users.UpdateProfile(ctx, id, p)
	if err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, fmt.Errorf("%w: id=%d", ErrNotFound, id)
		case db.IsDuplicateKey(err):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, p.Email)
		default:
			return nil, storageErr("update profile", err)
		}
	}
	return u, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes the record permanently; its login history goes with it.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	if err := r.users.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: id=%d", ErrNotFound, id)
		}
		return storageErr("delete user", err)
	}

	r.log.DebugContext(ctx, "registry: user deleted", "id", id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List
// ─────────────────────────────────────────────────────────────────────────────

// List returns every record in insertion order, unfiltered.
func (r *Registry) List(ctx context.Context) ([]*models.User, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}
