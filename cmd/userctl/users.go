package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Skryldev/userdb/models"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Administrative operations on the user records",
}

// ─────────────────────────────────────────────────────────────────────────────
// users list
// ─────────────────────────────────────────────────────────────────────────────

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every user record",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		// Greet with the persisted session marker, falling back to Guest.
		name, err := e.sessions.Get(cmd.Context())
		if err != nil {
			return err
		}
		if name == "" {
			name = "Guest"
		}
		fmt.Printf("Welcome, %s\n\n", name)

		users, err := e.registry.List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tADDRESS\tSTATUS\tLOGINS")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
				u.ID, u.Name, u.Email, u.Address, u.Status, len(u.LoginHistory))
		}
		return w.Flush()
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// users block / unblock
// ─────────────────────────────────────────────────────────────────────────────

var usersBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Block a user (login denied until unblocked)",
	Args:  cobra.ExactArgs(1),
	RunE:  setStatusRun(models.StatusBlocked),
}

var usersUnblockCmd = &cobra.Command{
	Use:   "unblock <id>",
	Short: "Unblock a user",
	Args:  cobra.ExactArgs(1),
	RunE:  setStatusRun(models.StatusActive),
}

func setStatusRun(status models.Status) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.registry.SetStatus(cmd.Context(), id, status); err != nil {
			return err
		}
		fmt.Printf("User %d is now %s\n", id, status)
		return nil
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// users update
// ─────────────────────────────────────────────────────────────────────────────

var updateProfile models.ProfileUpdate

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a user's name, email, and address",
	Long: `Edit a user's name, email, and address. Flags left unset keep the
current value. Password, status, and login history are never touched by
an update.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		// Prefill from the current record so unset flags are no-ops.
		current, err := findUser(cmd, e, id)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("name") {
			updateProfile.Name = current.Name
		}
		if !cmd.Flags().Changed("email") {
			updateProfile.Email = current.Email
		}
		if !cmd.Flags().Changed("address") {
			updateProfile.Address = current.Address
		}

		u, err := e.registry.UpdateProfile(cmd.Context(), id, updateProfile)
		if err != nil {
			return err
		}
		fmt.Printf("%s's details updated successfully\n", u.Name)
		return nil
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// users delete
// ─────────────────────────────────────────────────────────────────────────────

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a user permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.registry.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("User %d has been removed\n", id)
		return nil
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// users history
// ─────────────────────────────────────────────────────────────────────────────

var usersHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a user's login timestamps, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		u, err := findUser(cmd, e, id)
		if err != nil {
			return err
		}

		if len(u.LoginHistory) == 0 {
			fmt.Printf("%s has no recorded logins\n", u.Name)
			return nil
		}
		fmt.Printf("Login history for %s:\n", u.Name)
		for i, ts := range u.LoginHistory {
			fmt.Printf("  %d. %s\n", i+1, ts)
		}
		return nil
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

func findUser(cmd *cobra.Command, e *env, id int64) (*models.User, error) {
	users, err := e.registry.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %d not found", id)
}

func init() {
	usersUpdateCmd.Flags().StringVar(&updateProfile.Name, "name", "", "new display name")
	usersUpdateCmd.Flags().StringVar(&updateProfile.Email, "email", "", "new email address")
	usersUpdateCmd.Flags().StringVar(&updateProfile.Address, "address", "", "new postal address")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersBlockCmd)
	usersCmd.AddCommand(usersUnblockCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersHistoryCmd)
}
