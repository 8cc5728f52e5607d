package models

import "time"

// Status is the two-value account state. It is the sole gate on login
// success: blocked accounts fail authentication even with matching
// credentials.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// Valid reports whether s is one of the two defined states.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusBlocked
}

// User represents a record in the "users" store.
// Fields map 1-to-1 with columns; no automatic relation loading.
type User struct {
	ID      int64
	Name    string
	Email   string
	Address string

	// Password is stored and compared as plain text; there is no hashing
	// anywhere in this system.
	Password string

	Status Status

	// LoginHistory is the append-only list of successful-login timestamps
	// (RFC 3339, UTC). Insertion order is chronological order; it is never
	// reordered or truncated.
	LoginHistory []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterParams holds the fields required to register a new user.
// Keeping input types separate from the domain model prevents accidental
// mass-assignment and makes API contracts explicit.
type RegisterParams struct {
	Name     string
	Email    string
	Address  string
	Password string
}

// ProfileUpdate holds the three fields a profile update overwrites.
// Password, status, and login history are never touched by a profile update.
type ProfileUpdate struct {
	Name    string
	Email   string
	Address string
}

// Session is the explicit session value returned by a successful
// authentication. The registry itself is stateless; the caller decides
// where (and whether) to persist the marker. There is no logout or expiry.
type Session struct {
	// Name is the logged-in user's display name, the value persisted in
	// the session slot and used for the list greeting.
	Name string

	LoggedInAt time.Time
}
