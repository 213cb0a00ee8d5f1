// internal/cli/output.go
package bookshelf

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
)

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
	failText = color.New(color.FgRed).SprintFunc()
	dimText  = color.New(color.Faint).SprintFunc()
)

// printJSON writes v as indented JSON, used by commands when jsonMode is on.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// debugDump pretty-prints v when debug mode is enabled.
func debugDump(v any) {
	if DebugEnabled() {
		pp.Println(v)
	}
}
