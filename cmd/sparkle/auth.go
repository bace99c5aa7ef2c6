package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Mock sign-in flow (demo only, no real security)",
	}
	cmd.AddCommand(
		newAuthRegisterCmd(),
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthWhoamiCmd(),
	)
	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Outcome is a notification, not an error: a duplicate email is a
			// normal answer, not a failure of the command.
			storefront.Auth.Register(cmdContext(cmd), email, password, name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storefront.Auth.Login(cmdContext(cmd), email, password)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storefront.Auth.Logout(cmdContext(cmd))
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := storefront.Auth.CurrentUser()
			if u == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
			return nil
		},
	}
}
