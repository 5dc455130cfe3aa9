package users

import (
	"fmt"

	"github.com/crucial707/notehub/cmd/cli/config"
	"github.com/crucial707/notehub/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	usersCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Register User
// ==========================
func registerCmd() *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Create an account with a display name, email, username and password.",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := config.Client().Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s registered. You can now log in.\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	for _, f := range []string{"name", "email", "username", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
