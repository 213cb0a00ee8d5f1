// internal/cli/books_edit.go
package bookshelf

import (
	"fmt"
	"strconv"

	"github.com/mwiater/bookshelf/internal/api"
	"github.com/spf13/cobra"
)

var (
	editBookTitle  string
	editBookAuthor string
	editBookGenre  string
)

// booksEditCmd implements 'books edit', which updates only the fields the
// user passed; unset flags leave the server values untouched.
var booksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a book's fields (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book id %q", args[0])
		}

		var fields api.BookFields
		if cmd.Flags().Changed("title") {
			fields.Title = &editBookTitle
		}
		if cmd.Flags().Changed("author") {
			fields.Author = &editBookAuthor
		}
		if cmd.Flags().Changed("genre") {
			fields.Genre = &editBookGenre
		}
		if fields == (api.BookFields{}) {
			return fmt.Errorf("nothing to update: pass at least one of --title, --author, --genre")
		}

		affected, err := libraryClient().EditBook(cmd.Context(), id, fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Updated book %d (%d record(s)).", id, affected)))
		return nil
	},
}

func init() {
	booksEditCmd.Flags().StringVar(&editBookTitle, "title", "", "new title")
	booksEditCmd.Flags().StringVar(&editBookAuthor, "author", "", "new author")
	booksEditCmd.Flags().StringVar(&editBookGenre, "genre", "", "new genre")
	booksCmd.AddCommand(booksEditCmd)
}
