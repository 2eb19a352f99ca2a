package mef

import (
	"bufio"
	"fmt"
	"io"

	"github.com/riskgraph/faulttree/ccf"
	"github.com/riskgraph/faulttree/dfs"
	"github.com/riskgraph/faulttree/event"
	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/node"
	"github.com/riskgraph/faulttree/tree"
)

// Write streams ft to w as canonical Open-PSA MEF XML. nest > 0 enables
// inlining private (single-parent) NOT gates at their one use site instead
// of defining them separately and referencing them by name, which is the
// --nest CLI knob's effect.
//
// ft must already be populated (tree.Populate or validate.Run) with a
// resolved TopGate/TopGates.
func Write(ft *tree.FaultTree, w io.Writer, nest int) error {
	bw := bufio.NewWriter(w)

	roots := topLevelRoots(ft)
	order, err := dfs.TopoSort(ft.Gates, roots)
	if err != nil {
		return fmt.Errorf("mef: %w", err)
	}

	inlined := make(map[node.GateHandle]bool)
	if nest > 0 {
		for h, g := range ft.Gates {
			if g.Operator == gate.NOT && g.NumParents() == 1 {
				inlined[node.GateHandle(h)] = true
			}
		}
	}

	fmt.Fprint(bw, `<opsa-mef><define-fault-tree name="`, ft.Name.String(), `">`)
	for _, h := range order {
		if inlined[h] {
			continue
		}
		writeGate(bw, ft, ft.GateAt(h), inlined)
	}
	for _, g := range ft.CCFGroups {
		writeCCFGroup(bw, ft, g)
	}
	fmt.Fprint(bw, `</define-fault-tree><model-data>`)
	writeModelData(bw, ft)
	fmt.Fprint(bw, `</model-data></opsa-mef>`)

	return bw.Flush()
}

func topLevelRoots(ft *tree.FaultTree) []node.GateHandle {
	if ft.MultiTop {
		return ft.TopGates
	}
	return []node.GateHandle{ft.TopGate}
}

func writeGate(w *bufio.Writer, ft *tree.FaultTree, g *gate.Gate, inlined map[node.GateHandle]bool) {
	fmt.Fprint(w, `<define-gate name="`, g.Name.String(), `">`)
	writeFormula(w, ft, g.Formula, inlined)
	fmt.Fprint(w, `</define-gate>`)
}

func writeFormula(w *bufio.Writer, ft *tree.FaultTree, f gate.Formula, inlined map[node.GateHandle]bool) {
	if f.Operator == gate.NULL {
		// null is a pass-through: no wrapper element, just its one argument.
		writeArg(w, ft, f.Arguments[0], inlined)
		return
	}

	tag := f.Operator.String()
	if f.Operator == gate.ATLEAST {
		fmt.Fprintf(w, `<%s min="%d">`, tag, f.KNum)
	} else {
		fmt.Fprintf(w, `<%s>`, tag)
	}
	for _, a := range f.Arguments {
		writeArg(w, ft, a, inlined)
	}
	fmt.Fprintf(w, `</%s>`, tag)
}

func writeArg(w *bufio.Writer, ft *tree.FaultTree, a gate.ArgRef, inlined map[node.GateHandle]bool) {
	if a.Complement {
		fmt.Fprint(w, `<not>`)
	}
	switch a.Kind {
	case gate.ArgBasic:
		fmt.Fprint(w, `<basic-event name="`, ft.Basic(a.Basic).Name.String(), `"/>`)
	case gate.ArgHouse:
		fmt.Fprint(w, `<house-event name="`, ft.House(a.House).Name.String(), `"/>`)
	case gate.ArgUndefined:
		fmt.Fprint(w, `<event name="`, ft.Undefined(a.Undefined).Name.String(), `"/>`)
	case gate.ArgGate:
		target := ft.GateAt(a.Gate)
		if inlined[a.Gate] {
			writeFormula(w, ft, target.Formula, inlined)
		} else {
			fmt.Fprint(w, `<gate name="`, target.Name.String(), `"/>`)
		}
	}
	if a.Complement {
		fmt.Fprint(w, `</not>`)
	}
}

func writeCCFGroup(w *bufio.Writer, ft *tree.FaultTree, g *ccf.Group) {
	fmt.Fprint(w, `<define-CCF-group name="`, g.Name.String(), `" model="`, string(g.Model), `"><members>`)
	for _, m := range g.Members {
		fmt.Fprint(w, `<basic-event name="`, ft.Basic(m).Name.String(), `"/>`)
	}
	fmt.Fprint(w, `</members><distribution><float value="`, fmt.Sprintf("%g", g.Prob), `"/></distribution><factors>`)
	for i, f := range g.Factors {
		fmt.Fprintf(w, `<factor level="%d" value="%g"/>`, i+2, f)
	}
	fmt.Fprint(w, `</factors></define-CCF-group>`)
}

func writeModelData(w *bufio.Writer, ft *tree.FaultTree) {
	basics := ft.BasicEvents
	if len(ft.CCFGroups) > 0 {
		basics = nonCCFSlice(ft)
	}
	for _, b := range basics {
		writeBasicEvent(w, b)
	}
	for _, h := range ft.HouseEvents {
		fmt.Fprint(w, `<define-house-event name="`, h.Name.String(), `"><constant value="`, h.StateString(), `"/></define-house-event>`)
	}
}

func writeBasicEvent(w *bufio.Writer, b *event.BasicEvent) {
	fmt.Fprint(w, `<define-basic-event name="`, b.Name.String(), `">`)
	if b.HasLiteral {
		fmt.Fprintf(w, `<float value="%g"/>`, b.Prob)
	} else {
		writeExpr(w, b.Expression)
	}
	fmt.Fprint(w, `</define-basic-event>`)
}

// writeExpr renders an expr.Expr as MEF's expression elements: a bare
// <float> for a literal, <parameter name=.../> for a reference, and the
// matching arithmetic tag (<add>, <sub>, <mul>, <div>) for a Binary node.
func writeExpr(w *bufio.Writer, e expr.Expr) {
	switch v := e.(type) {
	case expr.Literal:
		fmt.Fprintf(w, `<float value="%g"/>`, float64(v))
	case expr.ParamRef:
		fmt.Fprint(w, `<parameter name="`, v.Name.String(), `"/>`)
	case expr.Binary:
		tag := binaryTag(v.Op)
		fmt.Fprintf(w, `<%s>`, tag)
		writeExpr(w, v.Left)
		writeExpr(w, v.Right)
		fmt.Fprintf(w, `</%s>`, tag)
	}
}

func binaryTag(op expr.Op) string {
	switch op {
	case expr.Add:
		return "add"
	case expr.Sub:
		return "sub"
	case expr.Mul:
		return "mul"
	case expr.Div:
		return "div"
	default:
		return "add"
	}
}

func nonCCFSlice(ft *tree.FaultTree) []*event.BasicEvent {
	out := make([]*event.BasicEvent, 0, len(ft.NonCCFEvents))
	for _, h := range ft.NonCCFEvents {
		out = append(out, ft.Basic(h))
	}
	return out
}
