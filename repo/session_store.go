package repo

import (
	"context"

	"github.com/Skryldev/userdb/db"
)

// The session table is a one-slot key-value store living next to the users
// table. It holds a single marker: the logged-in user's display name.
// Nothing ever clears it; there is no logout in this system.

const sessionKeyUsername = "username"

const (
	sqlPutSession = `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	sqlGetSession = `
		SELECT value FROM session WHERE key = ? LIMIT 1`
)

// SessionStore persists the session marker outside the users record store.
type SessionStore struct {
	q db.Querier
}

// NewSessionStore returns a SessionStore backed by q.
func NewSessionStore(q db.Querier) *SessionStore {
	return &SessionStore{q: q}
}

// Put writes the session marker, overwriting any previous value.
func (s *SessionStore) Put(ctx context.Context, name string) error {
	_, err := s.q.Exec(ctx, sqlPutSession, sessionKeyUsername, name)
	return err
}

// Get returns the session marker, or "" when no login has happened yet —
// callers treat the empty value as a guest.
func (s *SessionStore) Get(ctx context.Context) (string, error) {
	var name string
	err := s.q.QueryRow(ctx, sqlGetSession, sessionKeyUsername).Scan(&name)
	if db.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
