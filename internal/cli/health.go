// internal/cli/health.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd implements 'health', which reports the archive service health
// and the size of its vector index.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show archive service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := archiveClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		if JSONModeEnabled() {
			return printJSON(cmd.OutOrStdout(), health)
		}

		status := okText(health.Status)
		if health.Status != "ok" {
			status = warnText(health.Status)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archive: %s (%d indexed vectors)\n", status, health.IndexedVectors)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
