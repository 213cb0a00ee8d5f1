// internal/cli/books_list.go
package bookshelf

import (
	"fmt"

	"github.com/mwiater/bookshelf/internal/query"
	"github.com/spf13/cobra"
)

// booksListCmd implements 'books list', which prints the catalog.
var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := libraryClient().ListBooks(cmd.Context())
		if err != nil {
			return err
		}
		debugDump(books)
		if JSONModeEnabled() {
			return printJSON(cmd.OutOrStdout(), books)
		}
		if len(books) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "The shelf is empty.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), query.FormatBookList(books))
		return nil
	},
}

func init() {
	booksCmd.AddCommand(booksListCmd)
}
