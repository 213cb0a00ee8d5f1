// internal/cli/users_add.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addUserUsername string
	addUserEmail    string
	addUserPassword string
	addUserPhone    string
	addUserRole     string
)

// usersAddCmd implements 'users add', which creates an account with an
// explicit role. Unlike 'signup', this can mint admins.
var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account with an explicit role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		err := libraryClient().AddUser(cmd.Context(), addUserUsername, addUserEmail, addUserPassword, addUserPhone, addUserRole)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Created account %s (role: %s).", addUserEmail, addUserRole)))
		return nil
	},
}

func init() {
	usersAddCmd.Flags().StringVar(&addUserUsername, "username", "", "display name")
	usersAddCmd.Flags().StringVar(&addUserEmail, "email", "", "account email")
	usersAddCmd.Flags().StringVar(&addUserPassword, "password", "", "account password")
	usersAddCmd.Flags().StringVar(&addUserPhone, "phone", "", "phone number (optional)")
	usersAddCmd.Flags().StringVar(&addUserRole, "role", "user", "account role (user or admin)")
	_ = usersAddCmd.MarkFlagRequired("username")
	_ = usersAddCmd.MarkFlagRequired("email")
	_ = usersAddCmd.MarkFlagRequired("password")
	usersCmd.AddCommand(usersAddCmd)
}
