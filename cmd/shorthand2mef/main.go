// Command shorthand2mef converts a shorthand fault-tree file into canonical
// Open-PSA MEF XML.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskgraph/faulttree/mef"
	"github.com/riskgraph/faulttree/shorthand"
	"github.com/riskgraph/faulttree/tree"
)

var flags struct {
	out      string
	multiTop bool
	nest     int
}

var rootCmd = &cobra.Command{
	Use:   "shorthand2mef <input>",
	Short: "Converts a shorthand fault-tree file to MEF XML",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.out, "out", "o", "", "output path (default: stdout)")
	f.BoolVar(&flags.multiTop, "multi-top", false, "allow more than one root gate")
	f.IntVar(&flags.nest, "nest", 0, "nestedness of Boolean formulae in the output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("shorthand2mef: %w", err)
	}
	defer in.Close()

	var opts []tree.Option
	if flags.multiTop {
		opts = append(opts, tree.WithMultiTop())
	}

	ft, err := shorthand.Parse(in, opts...)
	if err != nil {
		return fmt.Errorf("shorthand2mef: %w", err)
	}

	out := os.Stdout
	if flags.out != "" {
		f, err := os.Create(flags.out)
		if err != nil {
			return fmt.Errorf("shorthand2mef: %w", err)
		}
		defer f.Close()
		out = f
	}

	return mef.Write(ft, out, flags.nest)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
