// internal/cli/books_delete.go
package bookshelf

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// booksDeleteCmd implements 'books delete', which removes a book by id.
// Natural-language deletion with title matching lives in 'ask' and 'chat';
// this is the direct admin path.
var booksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a book by id (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAdmin(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book id %q", args[0])
		}

		affected, err := libraryClient().DeleteBook(cmd.Context(), id)
		if err != nil {
			return err
		}
		if affected == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), warnText(fmt.Sprintf("No book with id %d.", id)))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), okText(fmt.Sprintf("Deleted book %d (%d record(s)).", id, affected)))
		return nil
	},
}

func init() {
	booksCmd.AddCommand(booksDeleteCmd)
}
