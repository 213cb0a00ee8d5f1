// internal/cli/status.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd implements 'status', which fetches a single ingestion job
// snapshot without polling.
var statusCmd = &cobra.Command{
	Use:   "status <upload_id>",
	Short: "Show the current status of an ingestion job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := archiveClient().JobStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		debugDump(status)
		if JSONModeEnabled() {
			return printJSON(cmd.OutOrStdout(), status)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Upload:  %s\n", status.UploadID)
		fmt.Fprintf(out, "Status:  %s\n", status.Status)
		if status.Message != "" {
			fmt.Fprintf(out, "Message: %s\n", status.Message)
		}
		if status.Error != "" {
			fmt.Fprintf(out, "Error:   %s\n", failText(status.Error))
		}
		if status.TotalChunks > 0 {
			fmt.Fprintf(out, "Chunks:  %d/%d\n", status.ProcessedChunks, status.TotalChunks)
		}
		if status.TotalVectors > 0 {
			fmt.Fprintf(out, "Vectors: %d\n", status.TotalVectors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
