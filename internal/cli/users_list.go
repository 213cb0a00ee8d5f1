// internal/cli/users_list.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

// usersListCmd implements 'users list', which prints all accounts.
var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		users, err := libraryClient().ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		debugDump(users)
		if JSONModeEnabled() {
			return printJSON(cmd.OutOrStdout(), users)
		}
		if len(users) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No accounts.")
			return nil
		}
		for _, user := range users {
			line := fmt.Sprintf("  %d. %s <%s> role=%s", user.ID, user.Username, user.Email, user.Role)
			if user.Phone != "" {
				line += " phone=" + user.Phone
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
}
