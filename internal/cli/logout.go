// internal/cli/logout.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd implements 'logout', which clears the persisted session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted login session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore().Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
