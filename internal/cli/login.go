// internal/cli/login.go
package bookshelf

import (
	"errors"
	"fmt"

	"github.com/mwiater/bookshelf/internal/api/library"
	"github.com/mwiater/bookshelf/internal/session"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd implements 'login', which exchanges credentials for a role and
// persists the session for later commands.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the library and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := libraryClient().Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			if errors.Is(err, library.ErrInvalidCredentials) {
				fmt.Fprintln(cmd.OutOrStdout(), failText("Invalid email or password."))
				return nil
			}
			return err
		}

		sess := session.Session{UserID: loginEmail, Email: loginEmail, Role: role}
		if err := sessionStore().Save(sess); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Logged in as %s (role: %s).", loginEmail, role)))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
