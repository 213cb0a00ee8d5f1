// internal/cli/users_delete.go
package bookshelf

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// usersDeleteCmd implements 'users delete', which removes an account by id.
var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		affected, err := libraryClient().DeleteUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		if affected == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), warnText(fmt.Sprintf("No account with id %d.", id)))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Deleted account %d (%d record(s)).", id, affected)))
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersDeleteCmd)
}
