// Command ftgen is the Complex-Fault-Tree Generator CLI: it samples a
// random fault tree of a given size and complexity and writes it out as
// canonical MEF XML (default) or Aralia shorthand (--aralia).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/riskgraph/faulttree/generator"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var argErr *argumentError
		switch {
		case errors.As(err, &argErr):
			fmt.Fprintln(os.Stderr, "Argument Error:\n"+err.Error())
			os.Exit(2)
		case errors.Is(err, generator.FactorError):
			fmt.Fprintln(os.Stderr, "Error in factors:\n"+err.Error())
			os.Exit(1)
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// argumentError marks a flag-validation failure (spec's Argument error
// class): exit 2, as opposed to a generator.FactorError (exit 1) or any
// other failure (exit 1 but without the "Argument Error:" preamble).
type argumentError struct{ msg string }

func (e *argumentError) Error() string { return e.msg }

func argErrorf(format string, args ...interface{}) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}
