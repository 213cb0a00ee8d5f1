// internal/cli/books.go
package bookshelf

import (
	"github.com/spf13/cobra"
)

// booksCmd represents the 'books' command group for catalog management.
var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Group commands for managing the book catalog",
	Long:  `The 'books' command groups subcommands that list and manage the library catalog. Add, edit, and delete require an admin session.`,
}

func init() {
	rootCmd.AddCommand(booksCmd)
}
