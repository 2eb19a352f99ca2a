package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskgraph/faulttree/aralia"
	"github.com/riskgraph/faulttree/generator"
	"github.com/riskgraph/faulttree/mef"
)

var rootCmd = &cobra.Command{
	Use:   "ftgen",
	Short: "Generates a fault tree of various complexities",
	Long: `ftgen generates a fault tree of the requested size and shape, suitable
for exercising analysis tools with inputs larger than anyone would write
by hand. The output is topologically sorted canonical MEF XML by default,
or Aralia shorthand with --aralia.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var flags struct {
	ftName   string
	root     string
	seed     int64
	numBasic int
	numArgs  float64
	weightsG []float64
	commonB  float64
	commonG  float64
	parentsB float64
	parentsG float64
	numGate  int
	minProb  float64
	maxProb  float64
	numHouse int
	numCCF   int
	out      string
	aralia   bool
	nest     int
	config   string
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.ftName, "ft-name", "Autogenerated", "name for the fault tree")
	f.StringVar(&flags.root, "root", "root", "name for the root gate")
	f.Int64Var(&flags.seed, "seed", 123, "seed for the PRNG")
	f.IntVarP(&flags.numBasic, "num-basic", "b", 100, "number of basic events")
	f.Float64VarP(&flags.numArgs, "num-args", "a", 3.0, "avg. number of gate arguments")
	f.Float64SliceVar(&flags.weightsG, "weights-g", []float64{1, 1, 0, 0, 0}, "weights for [AND, OR, K/N, NOT, XOR] gates")
	f.Float64Var(&flags.commonB, "common-b", 0.1, "avg. % of common basic events per gate")
	f.Float64Var(&flags.commonG, "common-g", 0.1, "avg. % of common gates per gate")
	f.Float64Var(&flags.parentsB, "parents-b", 2, "avg. number of parents for common basic events")
	f.Float64Var(&flags.parentsG, "parents-g", 2, "avg. number of parents for common gates")
	f.IntVarP(&flags.numGate, "num-gate", "g", 0, "number of gates (discards parents-b/g and common-b/g)")
	f.Float64Var(&flags.minProb, "min-prob", 0.01, "minimum probability for basic events")
	f.Float64Var(&flags.maxProb, "max-prob", 0.1, "maximum probability for basic events")
	f.IntVar(&flags.numHouse, "num-house", 0, "number of house events")
	f.IntVar(&flags.numCCF, "num-ccf", 0, "number of CCF groups")
	f.StringVarP(&flags.out, "out", "o", "", "a file to write the fault tree (default fault_tree.xml, or fault_tree.txt with --aralia)")
	f.BoolVar(&flags.aralia, "aralia", false, "write Aralia shorthand instead of MEF XML")
	f.IntVar(&flags.nest, "nest", 0, "nestedness of Boolean formulae in the XML output")
	f.StringVar(&flags.config, "config", "", "YAML file of complexity factors, overridden by any flag given explicitly")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flags.nest < 0 {
		return argErrorf("the nesting factor cannot be negative")
	}
	if flags.aralia && flags.nest > 0 {
		return argErrorf("no support for nested formulae in the Aralia format")
	}

	f, err := loadFactors(cmd)
	if err != nil {
		return err
	}
	f.Calculate()

	ft, err := generator.Generate(flags.seed, flags.ftName, flags.root, f)
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		if flags.aralia {
			out = "fault_tree.txt"
		} else {
			out = "fault_tree.xml"
		}
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("ftgen: %w", err)
	}
	defer file.Close()

	if flags.aralia {
		return aralia.Write(ft, file)
	}

	fmt.Fprintf(file, "<?xml version=\"1.0\"?>\n<!--\n%s-->\n\n", generator.Summarize(ft, f, flags.seed))
	return mef.Write(ft, file, flags.nest)
}

// loadFactors builds the Factors set: a --config YAML file supplies a
// base, then every flag the user set explicitly on the command line
// overrides the corresponding field, so "--config base.yaml -b 500" does
// exactly what it looks like it does.
func loadFactors(cmd *cobra.Command) (*generator.Factors, error) {
	var f *generator.Factors
	if flags.config != "" {
		file, err := os.Open(flags.config)
		if err != nil {
			return nil, argErrorf("opening --config: %v", err)
		}
		defer file.Close()
		f, err = generator.FromYAML(file)
		if err != nil {
			return nil, argErrorf("%v", err)
		}
	} else {
		f = generator.NewFactors()
	}

	changed := cmd.Flags().Changed
	if changed("num-basic") || f.NumBasic == 0 {
		f.NumBasic = flags.numBasic
	}
	if changed("num-args") || f.NumArgs == 0 {
		f.NumArgs = flags.numArgs
	}
	if changed("weights-g") || isZeroWeights(f.WeightsG) {
		copy(f.WeightsG[:], flags.weightsG)
	}
	if changed("common-b") || f.CommonB == 0 {
		f.CommonB = flags.commonB
	}
	if changed("common-g") || f.CommonG == 0 {
		f.CommonG = flags.commonG
	}
	if changed("parents-b") || f.ParentsB == 0 {
		f.ParentsB = flags.parentsB
	}
	if changed("parents-g") || f.ParentsG == 0 {
		f.ParentsG = flags.parentsG
	}
	if changed("num-gate") || f.NumGate == 0 {
		f.NumGate = flags.numGate
	}
	if changed("min-prob") || f.MinProb == 0 {
		f.MinProb = flags.minProb
	}
	if changed("max-prob") || f.MaxProb == 0 {
		f.MaxProb = flags.maxProb
	}
	if changed("num-house") || f.NumHouse == 0 {
		f.NumHouse = flags.numHouse
	}
	if changed("num-ccf") || f.NumCCF == 0 {
		f.NumCCF = flags.numCCF
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func isZeroWeights(w [5]float64) bool {
	for _, v := range w {
		if v != 0 {
			return false
		}
	}
	return true
}
