// internal/cli/upload.go
package bookshelf

import (
	"fmt"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/jobs"
	"github.com/spf13/cobra"
)

var (
	uploadTitle  string
	uploadAuthor string
	uploadGenre  string
)

// uploadCmd implements 'upload', which sends a PDF to the archive for
// ingestion and polls the job until it reaches a terminal state. Ingestion
// runs asynchronously on the server; the poller reports each status change.
var uploadCmd = &cobra.Command{
	Use:   "upload <pdf>",
	Short: "Upload a PDF to the archive and wait for indexing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := archiveClient()

		req := api.UploadRequest{
			FilePath: args[0],
			Title:    uploadTitle,
			Author:   uploadAuthor,
			Genre:    uploadGenre,
		}
		if sess, ok := currentSession(); ok {
			req.UserID = sess.UserID
		}

		uploadID, err := client.Upload(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upload started (id: %s). Waiting for indexing...\n", uploadID)

		final := make(chan jobs.Update, 1)
		poller := jobs.New(client,
			jobs.WithInterval(cfg.PollInterval()),
			jobs.WithMaxAttempts(cfg.PollAttempts()),
			jobs.WithOnUpdate(func(u jobs.Update) {
				printJobUpdate(cmd, u)
				if u.State.Terminal() {
					final <- u
				}
			}),
		)
		poller.Start(cmd.Context(), uploadID)
		defer poller.Stop()

		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case u := <-final:
			if u.State != jobs.Completed {
				return fmt.Errorf("ingestion did not complete: %s", u.Status)
			}
			return nil
		}
	},
}

// printJobUpdate renders one poll update on its own line.
func printJobUpdate(cmd *cobra.Command, u jobs.Update) {
	out := cmd.OutOrStdout()
	line := u.Status
	if u.Message != "" {
		line += ": " + u.Message
	}
	switch u.State {
	case jobs.Completed:
		fmt.Fprintln(out, okText(fmt.Sprintf("  [%s] %s", u.UploadID, line)))
	case jobs.Failed, jobs.TimedOut:
		fmt.Fprintln(out, failText(fmt.Sprintf("  [%s] %s", u.UploadID, line)))
	default:
		fmt.Fprintln(out, dimText(fmt.Sprintf("  [%s] %s (attempt %d)", u.UploadID, line, u.Attempt)))
	}
}

func init() {
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "book title")
	uploadCmd.Flags().StringVar(&uploadAuthor, "author", "", "book author")
	uploadCmd.Flags().StringVar(&uploadGenre, "genre", "", "book genre (optional)")
	_ = uploadCmd.MarkFlagRequired("title")
	_ = uploadCmd.MarkFlagRequired("author")
	rootCmd.AddCommand(uploadCmd)
}
