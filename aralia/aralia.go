package aralia

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/riskgraph/faulttree/dfs"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/node"
	"github.com/riskgraph/faulttree/tree"
)

// ErrUndefinedArgument indicates a gate references an UndefinedEvent,
// which the Aralia grammar has no token for.
var ErrUndefinedArgument = errors.New("aralia: undefined argument cannot be expressed")

// ErrComplementArgument indicates a gate argument carries a complement
// outside of a standalone NOT gate, which Aralia cannot express either.
var ErrComplementArgument = errors.New("aralia: complement argument cannot be expressed")

// Write streams ft out in Aralia form. ft must already be populated, with
// a resolved TopGate/TopGates.
func Write(ft *tree.FaultTree, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, ft.Name.String())

	roots := topLevelRoots(ft)
	order, err := dfs.TopoSort(ft.Gates, roots)
	if err != nil {
		return fmt.Errorf("aralia: %w", err)
	}
	for _, h := range order {
		line, err := formatGate(ft, ft.GateAt(h))
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, line)
	}

	for _, b := range ft.BasicEvents {
		if b.HasLiteral {
			fmt.Fprintf(bw, "p(%s) = %g\n", b.Name.String(), b.Prob)
		}
	}
	for _, h := range ft.HouseEvents {
		fmt.Fprintf(bw, "s(%s) = %s\n", h.Name.String(), h.StateString())
	}

	return bw.Flush()
}

func topLevelRoots(ft *tree.FaultTree) []node.GateHandle {
	if ft.MultiTop {
		return ft.TopGates
	}
	return []node.GateHandle{ft.TopGate}
}

func formatGate(ft *tree.FaultTree, g *gate.Gate) (string, error) {
	formula, err := formatFormula(ft, g.Formula)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s := %s", g.Name.String(), formula), nil
}

func formatFormula(ft *tree.FaultTree, f gate.Formula) (string, error) {
	switch f.Operator {
	case gate.NULL:
		return argName(ft, f.Arguments[0])
	case gate.NOT:
		name, err := argName(ft, f.Arguments[0])
		if err != nil {
			return "", err
		}
		return "~" + name, nil
	case gate.XOR:
		return joinArgs(ft, f.Arguments, " ^ ")
	case gate.OR:
		return joinArgs(ft, f.Arguments, " | ")
	case gate.AND:
		return joinArgs(ft, f.Arguments, " & ")
	case gate.ATLEAST:
		parts, err := argNames(ft, f.Arguments)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("@(%d, [%s])", f.KNum, strings.Join(parts, ", ")), nil
	default:
		return "", fmt.Errorf("aralia: unknown operator %v", f.Operator)
	}
}

func joinArgs(ft *tree.FaultTree, args []gate.ArgRef, sep string) (string, error) {
	parts, err := argNames(ft, args)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, sep), nil
}

func argNames(ft *tree.FaultTree, args []gate.ArgRef) ([]string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		name, err := argName(ft, a)
		if err != nil {
			return nil, err
		}
		parts[i] = name
	}
	return parts, nil
}

func argName(ft *tree.FaultTree, a gate.ArgRef) (string, error) {
	if a.Kind == gate.ArgUndefined {
		return "", ErrUndefinedArgument
	}
	if a.Complement {
		return "", ErrComplementArgument
	}
	switch a.Kind {
	case gate.ArgBasic:
		return ft.Basic(a.Basic).Name.String(), nil
	case gate.ArgHouse:
		return ft.House(a.House).Name.String(), nil
	case gate.ArgGate:
		return ft.GateAt(a.Gate).Name.String(), nil
	default:
		return "", fmt.Errorf("aralia: unknown argument kind %v", a.Kind)
	}
}
