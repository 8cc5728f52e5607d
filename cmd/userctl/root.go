// userctl is the command-line surface over the local user registry:
// registration, login, and the administrative record operations.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Skryldev/userdb/config"
	"github.com/Skryldev/userdb/db"
	"github.com/Skryldev/userdb/registry"
	"github.com/Skryldev/userdb/repo"

	_ "github.com/mattn/go-sqlite3"
)

var (
	flagConfig  string
	flagDB      string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "userctl",
	Short:         "Manage the local user database",
	Long:          `userctl manages a local, embedded user database: register users, log in (recording the login history), and run the administrative operations — list, block/unblock, edit, delete.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to userdb.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "store file path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every store statement")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(versionCmd)
}

// env holds everything an invocation needs once the store is open.
type env struct {
	registry *registry.Registry
	sessions *repo.SessionStore
	close    func()
}

// openEnv loads configuration, opens the store, and ensures the schema.
func openEnv(cmd *cobra.Command) (*env, error) {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	dsn := cfg.DSN()
	if flagDB != "" {
		dsn = flagDB
	}

	database, err := db.Open(db.Config{
		DSN:        dsn,
		DriverName: cfg.Database.Driver,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{Logger: logger}),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := repo.EnsureSchema(cmd.Context(), database); err != nil {
		_ = database.Close()
		return nil, err
	}

	return &env{
		registry: registry.New(repo.NewUserRepo(database), registry.WithLogger(logger)),
		sessions: repo.NewSessionStore(database),
		close:    func() { _ = database.Close() },
	}, nil
}

// printFieldErrors renders a field-keyed validation failure, one message
// per field in a fixed order.
func printFieldErrors(ve *registry.ValidationError) {
	for _, field := range []string{"name", "email", "address", "password"} {
		if msg, ok := ve.Fields[field]; ok {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
	}
}
