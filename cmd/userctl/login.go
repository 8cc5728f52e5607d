package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skryldev/userdb/registry"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and record the login in the user's history",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		user, session, err := e.registry.Authenticate(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			var ve *registry.ValidationError
			switch {
			case errors.As(err, &ve):
				printFieldErrors(ve)
				return errors.New("login rejected")
			case registry.IsAccountBlocked(err):
				return errors.New("this account is currently blocked; please contact support")
			case registry.IsInvalidCredentials(err):
				return errors.New("invalid email or password")
			default:
				return err
			}
		}

		// The session marker outlives the process; `users list` greets
		// with it on the next run.
		if err := e.sessions.Put(cmd.Context(), session.Name); err != nil {
			return err
		}

		fmt.Printf("Login successful. Welcome, %s (logins: %d)\n", user.Name, len(user.LoginHistory))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password")

	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
