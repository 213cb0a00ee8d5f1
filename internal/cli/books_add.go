// internal/cli/books_add.go
package bookshelf

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addBookTitle  string
	addBookAuthor string
	addBookGenre  string
)

// booksAddCmd implements 'books add', which creates a catalog entry.
var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the catalog (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		if err := libraryClient().AddBook(cmd.Context(), addBookTitle, addBookAuthor, addBookGenre); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Added %q by %s.", addBookTitle, addBookAuthor)))
		return nil
	},
}

func init() {
	booksAddCmd.Flags().StringVar(&addBookTitle, "title", "", "book title")
	booksAddCmd.Flags().StringVar(&addBookAuthor, "author", "", "book author")
	booksAddCmd.Flags().StringVar(&addBookGenre, "genre", "", "book genre (optional)")
	_ = booksAddCmd.MarkFlagRequired("title")
	_ = booksAddCmd.MarkFlagRequired("author")
	booksCmd.AddCommand(booksAddCmd)
}
