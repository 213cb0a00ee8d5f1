// cmd/bookshelf/main.go
package main

import (
	cmd "github.com/mwiater/bookshelf/internal/cli"
)

// main starts the bookshelf CLI application by delegating to the
// cobra root command defined in the bookshelf package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
