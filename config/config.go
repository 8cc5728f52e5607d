// Package config loads the userdb.yaml configuration file. Everything has a
// working default so the tools run with no config file at all.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the userdb.yaml structure.
type Config struct {
	Database struct {
		// Driver is the database/sql driver name, normally "sqlite3".
		Driver string `yaml:"driver"`
		// Path is the store file path (or ":memory:").
		Path string `yaml:"path"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level"`  // debug | info | warn | error
		Format string `yaml:"format"` // text | json
	} `yaml:"logging"`
}

// Load reads the config at path. An empty path searches the conventional
// locations; if no file exists, defaults are returned.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		for _, loc := range []string{"userdb.yaml", "userdb.yml", ".userdb.yaml"} {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite3"
	}
	if c.Database.Path == "" {
		c.Database.Path = "userdb.sqlite"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// DSN returns the data-source name: DATABASE_URL when set, otherwise the
// configured store path.
func (c *Config) DSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return c.Database.Path
}

// Logger builds the process logger per the logging section.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.slogLevel()}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func (c *Config) slogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
