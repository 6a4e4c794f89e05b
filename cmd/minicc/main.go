// Command minicc is the MiniC-to-Minisys-assembly compiler driver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcbound/minicc/internal/diag"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if _, ok := err.(*compileFailure); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// compileFailure marks an error that already printed its own
// diagnostics, so main doesn't print a redundant generic message.
type compileFailure struct{ diagnostics []diag.Diagnostic }

func (e *compileFailure) Error() string {
	return fmt.Sprintf("compilation failed with %d diagnostic(s)", len(e.diagnostics))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minicc",
		Short: "Compile MiniC source to Minisys assembly",
	}
	root.AddCommand(newCompileCmd())
	return root
}
