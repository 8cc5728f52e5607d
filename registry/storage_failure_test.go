package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/userdb/db"
	"github.com/Skryldev/userdb/registry"
	"github.com/Skryldev/userdb/repo"
)

// newMockedRegistry wires the registry to a sqlmock-backed store so tests can
// inject driver-level failures that an in-memory SQLite database never
// produces.
func newMockedRegistry(t *testing.T, dsn string) (*registry.Registry, sqlmock.Sqlmock) {
	t.Helper()

	_, mock, err := sqlmock.NewWithDSN(dsn, sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	database, err := db.Open(db.Config{
		DSN:        dsn,
		DriverName: "sqlmock",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return registry.New(repo.NewUserRepo(database)), mock
}

func TestAuthenticate_StorageFailure(t *testing.T) {
	r, mock := newMockedRegistry(t, "storage_failure_authenticate")

	driverErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(driverErr)

	_, _, err := r.Authenticate(context.Background(), "alice@gmail.com", "Secret1!")
	assert.True(t, registry.IsStorage(err), "expected ErrStorage, got %v", err)

	// A store failure must never masquerade as a business outcome.
	assert.False(t, registry.IsInvalidCredentials(err))
	assert.False(t, registry.IsAccountBlocked(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_StorageFailure(t *testing.T) {
	r, mock := newMockedRegistry(t, "storage_failure_create")

	driverErr := errors.New("database is locked")
	mock.ExpectExec("INSERT INTO users").WillReturnError(driverErr)

	_, err := r.Create(context.Background(), aliceParams())
	assert.True(t, registry.IsStorage(err), "expected ErrStorage, got %v", err)
	assert.False(t, registry.IsDuplicateEmail(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_StorageFailure(t *testing.T) {
	r, mock := newMockedRegistry(t, "storage_failure_list")

	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(errors.New("connection reset"))

	_, err := r.List(context.Background())
	assert.True(t, registry.IsStorage(err), "expected ErrStorage, got %v", err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
