// internal/cli/ask.go
package bookshelf

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/mwiater/bookshelf/internal/query"
	"github.com/spf13/cobra"
)

// askCmd implements 'ask', which runs a single query against the library and
// prints the outcome. The query is routed by intent: deletes and listings hit
// the catalog endpoints, everything else goes to hybrid search.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the library a single question",
	Long:  `The 'ask' command sends one natural-language query to the library. "list all books" prints the catalog, "delete the book <title>" removes a book after confirmation, and anything else is answered by hybrid search.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := libraryClient()

		qc := query.New(client, client,
			query.WithResultCount(cfg.ResultCount()),
			query.WithConfirm(terminalConfirm(cmd)),
		)

		q := query.Query{Text: strings.Join(args, " ")}
		if sess, ok := currentSession(); ok {
			q.UserID = sess.UserID
		}

		outcome := qc.Execute(cmd.Context(), q)
		debugDump(outcome)
		if JSONModeEnabled() {
			return printJSON(cmd.OutOrStdout(), outcome)
		}
		printOutcome(cmd, outcome)
		return nil
	},
}

// terminalConfirm prompts on stdin before a deletion proceeds.
func terminalConfirm(cmd *cobra.Command) query.ConfirmFunc {
	return func(book api.Book) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %q by %s? [y/N]: ", book.Title, book.Author)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

// printOutcome renders a query outcome for the terminal.
func printOutcome(cmd *cobra.Command, outcome query.Outcome) {
	out := cmd.OutOrStdout()
	switch outcome.Kind {
	case query.KindAnswer:
		fmt.Fprintln(out, outcome.Result.Answer)
		if len(outcome.Result.Snippets) > 0 {
			fmt.Fprintln(out, dimText("\nContext:"))
			for _, snippet := range outcome.Result.Snippets {
				fmt.Fprintf(out, "  %s\n", dimText(snippet))
			}
		}
		if len(outcome.Result.Sources) > 0 {
			fmt.Fprintln(out, "\nSources:")
			for _, source := range outcome.Result.Sources {
				fmt.Fprintf(out, "  - %s\n", source)
			}
		}
	case query.KindDeleted:
		fmt.Fprintln(out, okText(outcome.Message))
	case query.KindError:
		fmt.Fprintln(out, failText(outcome.Message))
	case query.KindNotFound, query.KindCancelled, query.KindInvalid, query.KindBusy:
		fmt.Fprintln(out, warnText(outcome.Message))
	default:
		fmt.Fprintln(out, outcome.Message)
	}
}

func init() {
	rootCmd.AddCommand(askCmd)
}
