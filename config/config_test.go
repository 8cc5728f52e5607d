package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir stands in for testing.T.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no userdb.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "userdb.sqlite", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/custom.sqlite
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.sqlite", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Unset keys still get defaults.
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSN_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	t.Setenv("DATABASE_URL", "")
	assert.Equal(t, "userdb.sqlite", cfg.DSN())

	t.Setenv("DATABASE_URL", "/var/lib/userdb/users.sqlite")
	assert.Equal(t, "/var/lib/userdb/users.sqlite", cfg.DSN())
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"error":   "ERROR",
		"unknown": "INFO",
	}
	for level, want := range cases {
		cfg := &Config{}
		cfg.Logging.Level = level
		assert.Equal(t, want, cfg.slogLevel().String(), "level %q", level)
	}
}
