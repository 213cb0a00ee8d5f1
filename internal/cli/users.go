// internal/cli/users.go
package bookshelf

import (
	"github.com/spf13/cobra"
)

// usersCmd represents the 'users' command group for account management.
// All subcommands require an admin session.
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Group commands for managing library accounts (admin)",
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
