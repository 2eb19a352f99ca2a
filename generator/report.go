package generator

import (
	"fmt"
	"strings"

	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/tree"
)

// Summarize renders a human-readable description of the factor setup and
// the resulting tree's size, suitable for embedding as an XML comment
// ahead of the serialized tree body (cmd/ftgen does exactly that).
func Summarize(ft *tree.FaultTree, f *Factors, seed int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This is a description of the auto-generated fault tree\nwith the following parameters:\n\n")
	fmt.Fprintf(&b, "The fault tree name: %s\n", ft.Name.String())
	fmt.Fprintf(&b, "The seed of the random number generator: %d\n", seed)
	fmt.Fprintf(&b, "The number of basic events: %d\n", f.NumBasic)
	fmt.Fprintf(&b, "The number of house events: %d\n", f.NumHouse)
	fmt.Fprintf(&b, "The number of CCF groups: %d\n", f.NumCCF)
	fmt.Fprintf(&b, "The average number of gate arguments: %g\n", f.NumArgs)
	fmt.Fprintf(&b, "The weights of gate types [AND, OR, K/N, NOT, XOR]: %v\n", f.WeightsG)
	fmt.Fprintf(&b, "Percentage of common basic events per gate: %g\n", f.CommonB)
	fmt.Fprintf(&b, "Percentage of common gates per gate: %g\n", f.CommonG)
	fmt.Fprintf(&b, "The avg. number of parents for common basic events: %g\n", f.ParentsB)
	fmt.Fprintf(&b, "The avg. number of parents for common gates: %g\n", f.ParentsG)
	fmt.Fprintf(&b, "Minimum probability for basic events: %g\n", f.MinProb)
	fmt.Fprintf(&b, "Maximum probability for basic events: %g\n\n", f.MaxProb)

	b.WriteString(sizeSummary(ft))
	report := Complexity(ft)
	fmt.Fprintf(&b, "Basic events to gates ratio: %g\n", float64(len(ft.BasicEvents))/float64(len(ft.Gates)))
	fmt.Fprintf(&b, "Percentage of common basic events per gate (observed): %g\n", report.CommonB)
	fmt.Fprintf(&b, "Percentage of common gates per gate (observed): %g\n", report.CommonG)
	fmt.Fprintf(&b, "Percentage of arguments that are basic events per gate (observed): %g\n", report.FracB)
	return b.String()
}

func sizeSummary(ft *tree.FaultTree) string {
	var and, or, atleast, not, xor int
	for _, g := range ft.Gates {
		switch g.Operator {
		case gate.AND:
			and++
		case gate.OR:
			or++
		case gate.ATLEAST:
			atleast++
		case gate.NOT:
			not++
		case gate.XOR:
			xor++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The number of basic events: %d\n", len(ft.BasicEvents))
	fmt.Fprintf(&b, "The number of house events: %d\n", len(ft.HouseEvents))
	fmt.Fprintf(&b, "The number of CCF groups: %d\n", len(ft.CCFGroups))
	fmt.Fprintf(&b, "The number of gates: %d\n", len(ft.Gates))
	fmt.Fprintf(&b, "    AND gates: %d\n", and)
	fmt.Fprintf(&b, "    OR gates: %d\n", or)
	fmt.Fprintf(&b, "    K/N gates: %d\n", atleast)
	fmt.Fprintf(&b, "    NOT gates: %d\n", not)
	fmt.Fprintf(&b, "    XOR gates: %d\n", xor)
	return b.String()
}

// ComplexityReport is the observed counterpart to the factors Calculate
// derives ahead of generation: the actual fraction of arguments that are
// basic events, and the actual fraction of common (shared) basic
// events/gates, averaged per gate over the generated tree. The package
// tests check only that each value lies in [0,1].
type ComplexityReport struct {
	FracB   float64
	CommonB float64
	CommonG float64
}

// Complexity computes the observed complexity report for an
// already-generated (Populate'd) tree.
func Complexity(ft *tree.FaultTree) ComplexityReport {
	var report ComplexityReport
	var fracBSum, commonBSum, commonGSum float64
	var gatesWithBasic, gatesWithGate int

	for _, g := range ft.Gates {
		numBasic, numGate := 0, 0
		for _, a := range g.Arguments {
			switch a.Kind {
			case gate.ArgBasic:
				numBasic++
			case gate.ArgGate:
				numGate++
			}
		}
		if total := numBasic + numGate; total > 0 {
			fracBSum += float64(numBasic) / float64(total)
		}
		if numBasic > 0 {
			common := 0
			for _, a := range g.Arguments {
				if a.Kind == gate.ArgBasic && ft.Basic(a.Basic).IsCommon() {
					common++
				}
			}
			commonBSum += float64(common) / float64(numBasic)
			gatesWithBasic++
		}
		if numGate > 0 {
			common := 0
			for _, a := range g.Arguments {
				if a.Kind == gate.ArgGate && ft.GateAt(a.Gate).IsCommon() {
					common++
				}
			}
			commonGSum += float64(common) / float64(numGate)
			gatesWithGate++
		}
	}

	report.FracB = fracBSum / float64(len(ft.Gates))
	if gatesWithBasic > 0 {
		report.CommonB = commonBSum / float64(gatesWithBasic)
	}
	if gatesWithGate > 0 {
		report.CommonG = commonGSum / float64(gatesWithGate)
	}
	return report
}
