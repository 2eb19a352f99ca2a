package mef

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/riskgraph/faulttree/ccf"
	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/tree"
)

// ErrMalformed reports a structurally invalid MEF document.
var ErrMalformed = errors.New("mef: malformed document")

// xnode is a generic element capture: a define-gate's formula body is one
// of several alternative element names (and/or/not/atleast/xor, or a bare
// reference for a pass-through gate), which no single fixed struct can
// express, so decoding walks a generic tree instead.
type xnode struct {
	XMLName xml.Name
	Attr    []xml.Attr `xml:",any,attr"`
	Nodes   []xnode    `xml:",any"`
}

func attr(n xnode, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Parse reads canonical MEF XML written by Write with nest=0 and
// reconstructs an equivalent, populated FaultTree. It exists to exercise
// the write/read round trip end to end, not as a general OpenPSA MEF
// reader: no multi-file includes, and nest>0 output can't be read back
// since inlining a private gate discards its name.
func Parse(r io.Reader) (*tree.FaultTree, error) {
	var root xnode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("mef: %w", err)
	}
	if root.XMLName.Local != "opsa-mef" {
		return nil, fmt.Errorf("%w: root element is %q, want opsa-mef", ErrMalformed, root.XMLName.Local)
	}

	var ftNode, modelData *xnode
	for i := range root.Nodes {
		switch root.Nodes[i].XMLName.Local {
		case "define-fault-tree":
			ftNode = &root.Nodes[i]
		case "model-data":
			modelData = &root.Nodes[i]
		}
	}
	if ftNode == nil {
		return nil, fmt.Errorf("%w: missing define-fault-tree", ErrMalformed)
	}

	ftName, ok := attr(*ftNode, "name")
	if !ok {
		return nil, fmt.Errorf("%w: define-fault-tree missing name", ErrMalformed)
	}
	name, err := ident.Parse(ftName)
	if err != nil {
		return nil, err
	}
	ft := tree.New(name, tree.WithMultiTop())

	for _, child := range ftNode.Nodes {
		switch child.XMLName.Local {
		case "define-gate":
			if err := parseGate(ft, child); err != nil {
				return nil, err
			}
		case "define-CCF-group":
			if err := parseCCFGroup(ft, child); err != nil {
				return nil, err
			}
		}
	}

	if modelData != nil {
		for _, child := range modelData.Nodes {
			switch child.XMLName.Local {
			case "define-basic-event":
				if err := parseBasicEvent(ft, child); err != nil {
					return nil, err
				}
			case "define-house-event":
				if err := parseHouseEvent(ft, child); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := ft.Populate(tree.WithStrict()); err != nil {
		return nil, err
	}
	return ft, nil
}

func parseGate(ft *tree.FaultTree, n xnode) error {
	name, ok := attr(n, "name")
	if !ok {
		return fmt.Errorf("%w: define-gate missing name", ErrMalformed)
	}
	if len(n.Nodes) != 1 {
		return fmt.Errorf("%w: gate %s body must have exactly one formula element", ErrMalformed, name)
	}
	op, kNum, args, err := parseFormula(n.Nodes[0])
	if err != nil {
		return err
	}
	gname, err := ident.Parse(name)
	if err != nil {
		return err
	}
	_, err = ft.AddGate(gname, op, args, kNum)
	return err
}

// parseFormula maps a formula element to its operator and arguments. A
// bare reference element (basic-event/house-event/gate/event, with no
// and/or/not/atleast/xor wrapper) is the NULL pass-through gate the
// shorthand parser produces for a bare name on a gate's right-hand side;
// an explicit <null> wrapper around one reference is read as NULL too.
func parseFormula(n xnode) (gate.Operator, int, []tree.GateArgSpec, error) {
	switch n.XMLName.Local {
	case "null":
		args, err := parseArgs(n.Nodes)
		return gate.NULL, 0, args, err
	case "and":
		args, err := parseArgs(n.Nodes)
		return gate.AND, 0, args, err
	case "or":
		args, err := parseArgs(n.Nodes)
		return gate.OR, 0, args, err
	case "xor":
		args, err := parseArgs(n.Nodes)
		return gate.XOR, 0, args, err
	case "not":
		args, err := parseArgs(n.Nodes)
		return gate.NOT, 0, args, err
	case "atleast":
		minStr, ok := attr(n, "min")
		if !ok {
			return 0, 0, nil, fmt.Errorf("%w: atleast missing min attribute", ErrMalformed)
		}
		k, err := strconv.Atoi(minStr)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%w: atleast min %q: %v", ErrMalformed, minStr, err)
		}
		args, err := parseArgs(n.Nodes)
		return gate.ATLEAST, k, args, err
	case "basic-event", "house-event", "gate", "event":
		a, err := parseArg(n)
		return gate.NULL, 0, []tree.GateArgSpec{a}, err
	default:
		return 0, 0, nil, fmt.Errorf("%w: unrecognized formula element %q", ErrMalformed, n.XMLName.Local)
	}
}

func parseArgs(nodes []xnode) ([]tree.GateArgSpec, error) {
	args := make([]tree.GateArgSpec, 0, len(nodes))
	for _, child := range nodes {
		a, err := parseArg(child)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

// parseArg reads a single argument reference, which is either a bare
// basic-event/house-event/gate/event element, or one of those wrapped in
// <not> to mark it complemented.
func parseArg(n xnode) (tree.GateArgSpec, error) {
	if n.XMLName.Local == "not" {
		if len(n.Nodes) != 1 {
			return tree.GateArgSpec{}, fmt.Errorf("%w: not must wrap exactly one argument", ErrMalformed)
		}
		inner, err := parseArg(n.Nodes[0])
		if err != nil {
			return tree.GateArgSpec{}, err
		}
		inner.Complement = true
		return inner, nil
	}
	switch n.XMLName.Local {
	case "basic-event", "house-event", "gate", "event":
		name, ok := attr(n, "name")
		if !ok {
			return tree.GateArgSpec{}, fmt.Errorf("%w: %s element missing name", ErrMalformed, n.XMLName.Local)
		}
		return tree.GateArgSpec{Name: name}, nil
	default:
		return tree.GateArgSpec{}, fmt.Errorf("%w: unrecognized argument element %q", ErrMalformed, n.XMLName.Local)
	}
}

func parseCCFGroup(ft *tree.FaultTree, n xnode) error {
	name, ok := attr(n, "name")
	if !ok {
		return fmt.Errorf("%w: define-CCF-group missing name", ErrMalformed)
	}
	model, ok := attr(n, "model")
	if !ok {
		return fmt.Errorf("%w: define-CCF-group %s missing model", ErrMalformed, name)
	}

	var members []string
	var prob float64
	var factors []float64
	for _, child := range n.Nodes {
		switch child.XMLName.Local {
		case "members":
			for _, m := range child.Nodes {
				mname, ok := attr(m, "name")
				if !ok {
					return fmt.Errorf("%w: CCF group %s member missing name", ErrMalformed, name)
				}
				members = append(members, mname)
			}
		case "distribution":
			if len(child.Nodes) != 1 {
				return fmt.Errorf("%w: CCF group %s distribution must have one float element", ErrMalformed, name)
			}
			v, ok := attr(child.Nodes[0], "value")
			if !ok {
				return fmt.Errorf("%w: CCF group %s distribution missing value", ErrMalformed, name)
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: CCF group %s distribution value %q: %v", ErrMalformed, name, v, err)
			}
			prob = f
		case "factors":
			for _, fn := range child.Nodes {
				v, ok := attr(fn, "value")
				if !ok {
					return fmt.Errorf("%w: CCF group %s factor missing value", ErrMalformed, name)
				}
				fv, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("%w: CCF group %s factor value %q: %v", ErrMalformed, name, v, err)
				}
				factors = append(factors, fv)
			}
		}
	}

	gname, err := ident.Parse(name)
	if err != nil {
		return err
	}
	// Write lists CCF members only inside their group, never under
	// model-data, so each member is declared here with the group's
	// probability before the group binds it.
	for _, m := range members {
		mname, err := ident.Parse(m)
		if err != nil {
			return err
		}
		if _, err := ft.AddBasicEvent(mname, prob); err != nil && !errors.Is(err, tree.ErrRedefinition) {
			return err
		}
	}
	_, err = ft.AddCCFGroup(gname, ccf.Model(model), prob, factors, members)
	return err
}

func parseBasicEvent(ft *tree.FaultTree, n xnode) error {
	name, ok := attr(n, "name")
	if !ok {
		return fmt.Errorf("%w: define-basic-event missing name", ErrMalformed)
	}
	if len(n.Nodes) != 1 {
		return fmt.Errorf("%w: basic event %s must have exactly one value element", ErrMalformed, name)
	}
	bname, err := ident.Parse(name)
	if err != nil {
		return err
	}

	child := n.Nodes[0]
	if child.XMLName.Local == "float" {
		v, ok := attr(child, "value")
		if !ok {
			return fmt.Errorf("%w: basic event %s float missing value", ErrMalformed, name)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: basic event %s float value %q: %v", ErrMalformed, name, v, err)
		}
		_, err = ft.AddBasicEvent(bname, f)
		return err
	}

	e, err := parseExpr(child)
	if err != nil {
		return err
	}
	_, err = ft.AddBasicEventExpr(bname, e)
	return err
}

func parseExpr(n xnode) (expr.Expr, error) {
	switch n.XMLName.Local {
	case "float":
		v, ok := attr(n, "value")
		if !ok {
			return nil, fmt.Errorf("%w: float missing value", ErrMalformed)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: float value %q: %v", ErrMalformed, v, err)
		}
		return expr.Literal(f), nil
	case "parameter":
		name, ok := attr(n, "name")
		if !ok {
			return nil, fmt.Errorf("%w: parameter missing name", ErrMalformed)
		}
		pname, err := ident.Parse(name)
		if err != nil {
			return nil, err
		}
		return expr.ParamRef{Name: pname}, nil
	case "add", "sub", "mul", "div":
		if len(n.Nodes) != 2 {
			return nil, fmt.Errorf("%w: %s requires exactly two operands", ErrMalformed, n.XMLName.Local)
		}
		left, err := parseExpr(n.Nodes[0])
		if err != nil {
			return nil, err
		}
		right, err := parseExpr(n.Nodes[1])
		if err != nil {
			return nil, err
		}
		return expr.Binary{Op: binaryOp(n.XMLName.Local), Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized expression element %q", ErrMalformed, n.XMLName.Local)
	}
}

func binaryOp(tag string) expr.Op {
	switch tag {
	case "add":
		return expr.Add
	case "sub":
		return expr.Sub
	case "mul":
		return expr.Mul
	default:
		return expr.Div
	}
}

func parseHouseEvent(ft *tree.FaultTree, n xnode) error {
	name, ok := attr(n, "name")
	if !ok {
		return fmt.Errorf("%w: define-house-event missing name", ErrMalformed)
	}
	if len(n.Nodes) != 1 || n.Nodes[0].XMLName.Local != "constant" {
		return fmt.Errorf("%w: house event %s must have exactly one constant element", ErrMalformed, name)
	}
	v, ok := attr(n.Nodes[0], "value")
	if !ok {
		return fmt.Errorf("%w: house event %s constant missing value", ErrMalformed, name)
	}
	state, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: house event %s constant value %q: %v", ErrMalformed, name, v, err)
	}
	hname, err := ident.Parse(name)
	if err != nil {
		return err
	}
	_, err = ft.AddHouseEvent(hname, state)
	return err
}
