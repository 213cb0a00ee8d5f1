// internal/cli/chat.go
package bookshelf

import (
	"context"

	"github.com/mwiater/bookshelf/cli"
	"github.com/spf13/cobra"
)

var startGUI = cli.StartGUI

// chatCmd represents the 'chat' command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive query session",
	Long:  `The 'chat' command starts an interactive terminal session against the library. Each submission is classified and routed: searches, catalog listings, and deletions with confirmation.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		startGUI(ctx, GetConfig(), cancel)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
