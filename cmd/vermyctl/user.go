package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vermy/vermy/internal/domain"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		email         string
		name          string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a login account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				password string
				err      error
			)
			if passwordStdin {
				password, err = readLine(bufio.NewReader(cmd.InOrStdin()))
			} else {
				password, err = getNewPassword(cmd.ErrOrStderr())
			}
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			svcs, closeAll, err := openServices(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			user, err := svcs.Auth.CreateUser(cmd.Context(), &domain.UserInput{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
