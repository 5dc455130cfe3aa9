package auth

import (
	"fmt"

	"github.com/crucial707/notehub/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), logoutCmd())
}

// loginCmd logs in and stores the token locally.
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the NoteHub API",
		Long:  "Authenticate with the NoteHub API and store the session token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := config.Client().Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if resp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>. Token stored locally.\n", resp.Name, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.RemoveToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}
