package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skryldev/userdb/models"
	"github.com/Skryldev/userdb/registry"
)

var registerParams models.RegisterParams

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		id, err := e.registry.Create(cmd.Context(), registerParams)
		if err != nil {
			var ve *registry.ValidationError
			if errors.As(err, &ve) {
				printFieldErrors(ve)
				return errors.New("registration rejected")
			}
			if registry.IsDuplicateEmail(err) {
				return fmt.Errorf("email %s is already registered", registerParams.Email)
			}
			return err
		}

		fmt.Printf("User registered successfully (id=%d)\n", id)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerParams.Name, "name", "", "display name (letters only)")
	registerCmd.Flags().StringVar(&registerParams.Email, "email", "", "gmail address")
	registerCmd.Flags().StringVar(&registerParams.Address, "address", "", "postal address")
	registerCmd.Flags().StringVar(&registerParams.Password, "password", "", "password (>=6 chars, one uppercase, one of !@#$%^&*)")

	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("address")
	_ = registerCmd.MarkFlagRequired("password")
}
