// internal/cli/users_edit.go
package bookshelf

import (
	"fmt"
	"strconv"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/spf13/cobra"
)

var (
	editUserUsername string
	editUserEmail    string
	editUserPassword string
	editUserPhone    string
	editUserRole     string
)

// usersEditCmd implements 'users edit', which updates only the fields the
// user passed.
var usersEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an account's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		var fields api.UserFields
		if cmd.Flags().Changed("username") {
			fields.Username = &editUserUsername
		}
		if cmd.Flags().Changed("email") {
			fields.Email = &editUserEmail
		}
		if cmd.Flags().Changed("password") {
			fields.Password = &editUserPassword
		}
		if cmd.Flags().Changed("phone") {
			fields.Phone = &editUserPhone
		}
		if cmd.Flags().Changed("role") {
			fields.Role = &editUserRole
		}
		if fields == (api.UserFields{}) {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		affected, err := libraryClient().EditUser(cmd.Context(), id, fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Updated user %d (%d record(s)).", id, affected)))
		return nil
	},
}

func init() {
	usersEditCmd.Flags().StringVar(&editUserUsername, "username", "", "new display name")
	usersEditCmd.Flags().StringVar(&editUserEmail, "email", "", "new email")
	usersEditCmd.Flags().StringVar(&editUserPassword, "password", "", "new password")
	usersEditCmd.Flags().StringVar(&editUserPhone, "phone", "", "new phone number")
	usersEditCmd.Flags().StringVar(&editUserRole, "role", "", "new role (user or admin)")
	usersCmd.AddCommand(usersEditCmd)
}
