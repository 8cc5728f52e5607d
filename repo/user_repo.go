package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Skryldev/userdb/db"
	"github.com/Skryldev/userdb/models"
)

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository interface — for mocking in tests
// ─────────────────────────────────────────────────────────────────────────────

// UserRepository defines the contract for user persistence operations.
// All implementations must satisfy this interface.
type UserRepository interface {
	Insert(ctx context.Context, params models.RegisterParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) (*models.User, error)
	SetStatus(ctx context.Context, id int64, status models.Status) error
	SetLoginHistory(ctx context.Context, id int64, history []string) error
	Delete(ctx context.Context, id int64) error
}

// ─────────────────────────────────────────────────────────────────────────────
// Schema
// ─────────────────────────────────────────────────────────────────────────────

// AUTOINCREMENT (not the plain rowid default) so that ids are never reused
// after a delete. login_history is a JSON array in a TEXT column, mirroring
// the document shape of the record.
const schemaDDL = `
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
	);

	CREATE TABLE IF NOT EXISTS session (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

// EnsureSchema creates the users and session tables if they do not exist.
// It is idempotent and runs at every open.
func EnsureSchema(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("repo: ensure schema: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// userRepo — concrete implementation
// ─────────────────────────────────────────────────────────────────────────────

// userRepo is the production implementation backed by a db.Querier.
type userRepo struct {
	q db.Querier
}

// NewUserRepo returns a UserRepository backed by q.
// q can be a *db.DB or *db.Tx — both satisfy db.Querier.
func NewUserRepo(q db.Querier) UserRepository {
	return &userRepo{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL constants — all SQL is explicit, version-controlled, and reviewable
// ─────────────────────────────────────────────────────────────────────────────

const (
	sqlInsertUser = `
		INSERT INTO users (name, email, address, password, status, login_history, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	sqlGetUserByID = `
		SELECT id, name, email, address, password, status, login_history, created_at, updated_at
		FROM   users
		WHERE  id = ?
		LIMIT  1`

	sqlListUsers = `
		SELECT id, name, email, address, password, status, login_history, created_at, updated_at
		FROM   users
		ORDER  BY id`

	sqlUpdateProfile = `
		UPDATE users
		SET    name = ?, email = ?, address = ?, updated_at = ?
		WHERE  id = ?`

	sqlSetStatus = `
		UPDATE users
		SET    status = ?, updated_at = ?
		WHERE  id = ?`

	sqlSetLoginHistory = `
		UPDATE users
		SET    login_history = ?, updated_at = ?
		WHERE  id = ?`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = ?`
)

// ─────────────────────────────────────────────────────────────────────────────
// Insert
// ─────────────────────────────────────────────────────────────────────────────

// Insert creates a new user record with status=active and an empty login
// history, and returns the persisted record including the store-assigned id.
// db.ErrDuplicateKey is returned when the email unique index rejects the row.
func (r *userRepo) Insert(ctx context.Context, params models.RegisterParams) (*models.User, error) {
	now := time.Now().UTC()
	res, err := r.q.Exec(ctx, sqlInsertUser,
		params.Name, params.Email, params.Address, params.Password,
		string(models.StatusActive), "[]", now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("repo/user: last insert id: %w", err)
	}
	return &models.User{
		ID:           id,
		Name:         params.Name,
		Email:        params.Email,
		Address:      params.Address,
		Password:     params.Password,
		Status:       models.StatusActive,
		LoginHistory: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a single user by primary key.
// Returns db.ErrNotFound when no record matches.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.q.QueryRow(ctx, sqlGetUserByID, id)
	return scanUser(row)
}

// ─────────────────────────────────────────────────────────────────────────────
// List
// ─────────────────────────────────────────────────────────────────────────────

// List returns every record in the store in insertion (id) order.
// No filtering or pagination; the dataset is local and small by contract.
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.q.Query(ctx, sqlListUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		var status, history string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.Password,
			&status, &history, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repo/user: scan: %w", err)
		}
		u.Status = models.Status(status)
		if u.LoginHistory, err = decodeHistory(history); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateProfile
// ─────────────────────────────────────────────────────────────────────────────

// UpdateProfile overwrites exactly name, email, and address, leaving
// password, status, and login history untouched. Returns db.ErrNotFound when
// id does not exist, db.ErrDuplicateKey when the new email collides with the
// unique index.
func (r *userRepo) UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) (*models.User, error) {
	res, err := r.q.Exec(ctx, sqlUpdateProfile, p.Name, p.Email, p.Address, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res.RowsAffected()); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// SetStatus
// ─────────────────────────────────────────────────────────────────────────────

// SetStatus writes the status column. Setting the current value again still
// issues the write; SQLite reports the row as affected either way, so the
// operation is idempotent from the caller's view.
func (r *userRepo) SetStatus(ctx context.Context, id int64, status models.Status) error {
	res, err := r.q.Exec(ctx, sqlSetStatus, string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

// ─────────────────────────────────────────────────────────────────────────────
// SetLoginHistory
// ─────────────────────────────────────────────────────────────────────────────

// SetLoginHistory persists the full (already appended) history list as a
// single-record write. Last write wins; there is no version check by design.
func (r *userRepo) SetLoginHistory(ctx context.Context, id int64, history []string) error {
	encoded, err := encodeHistory(history)
	if err != nil {
		return err
	}
	res, err := r.q.Exec(ctx, sqlSetLoginHistory, encoded, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// Delete removes a user permanently. The login history lives inside the
// record, so it disappears with it — there is nothing to cascade.
// Returns db.ErrNotFound if no row was deleted.
func (r *userRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, sqlDeleteUser, id)
	if err != nil {
		return err
	}
	return requireRow(res.RowsAffected())
}

// ─────────────────────────────────────────────────────────────────────────────
// scanUser — centralised column mapping
// ─────────────────────────────────────────────────────────────────────────────

// scanUser scans a single user row. Centralising the scan call means that
// adding/removing columns only requires a change in one place.
func scanUser(row *db.Row) (*models.User, error) {
	u := &models.User{}
	var status, history string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.Password,
		&status, &history, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repo/user: %w", err)
	}
	u.Status = models.Status(status)
	if u.LoginHistory, err = decodeHistory(history); err != nil {
		return nil, err
	}
	return u, nil
}

func encodeHistory(history []string) (string, error) {
	if history == nil {
		history = []string{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("repo/user: encode login history: %w", err)
	}
	return string(b), nil
}

func decodeHistory(encoded string) ([]string, error) {
	var history []string
	if err := json.Unmarshal([]byte(encoded), &history); err != nil {
		return nil, fmt.Errorf("repo/user: decode login history: %w", err)
	}
	if history == nil {
		history = []string{}
	}
	return history, nil
}

func requireRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Compile-time interface assertion
// ─────────────────────────────────────────────────────────────────────────────

var _ UserRepository = (*userRepo)(nil)
