package gate

import (
	"errors"
	"fmt"

	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/node"
)

// Operator is the Boolean combinator a Gate or Formula applies to its
// arguments.
type Operator int

// The legal operator set. Order matters for the generator's weight vector
// (AND, OR, ATLEAST, NOT, XOR) — see the generator package.
const (
	AND Operator = iota
	OR
	ATLEAST
	NOT
	XOR
	NULL // pass-through single-argument gate; emits no wrapper element on output
)

// String renders the operator using the shorthand/MEF tag spelling.
func (o Operator) String() string {
	switch o {
	case AND:
		return "and"
	case OR:
		return "or"
	case ATLEAST:
		return "atleast"
	case NOT:
		return "not"
	case XOR:
		return "xor"
	case NULL:
		return "null"
	default:
		return "unknown"
	}
}

// ErrBadArity indicates an argument count (or, for ATLEAST, a k_num) that
// violates the operator's fixed arity rule.
var ErrBadArity = errors.New("gate: argument count violates operator arity")

// MinArgs returns the generator's minimum args-per-operator table:
// AND=2, OR=2, ATLEAST=3, NOT=1, XOR=2.
// NULL is not generator-sampled; it is a pass-through the shorthand parser
// produces for a bare name, so it has arity exactly 1.
func (o Operator) MinArgs() int {
	switch o {
	case AND, OR:
		return 2
	case ATLEAST:
		return 3
	case NOT:
		return 1
	case XOR:
		return 2
	case NULL:
		return 1
	default:
		return 0
	}
}

// ValidateArity checks n (the argument count) and, for ATLEAST, k against
// the operator's arity rule:
//
//	NOT=1, XOR=2, ATLEAST=n>k>=2, NULL=1, AND/OR>=1 (>=2 when generator-built).
//
// The AND/OR floor used here is 1 (the invariant's general floor); callers
// that need the generator's stricter >=2 floor (human-authored single-arg
// AND/OR is legal but pointless) should additionally check n>=2 themselves.
func (o Operator) ValidateArity(n int, k int) error {
	switch o {
	case NOT:
		if n != 1 {
			return fmt.Errorf("%w: NOT requires exactly 1 argument, got %d", ErrBadArity, n)
		}
	case XOR:
		if n != 2 {
			return fmt.Errorf("%w: XOR requires exactly 2 arguments, got %d", ErrBadArity, n)
		}
	case NULL:
		if n != 1 {
			return fmt.Errorf("%w: NULL requires exactly 1 argument, got %d", ErrBadArity, n)
		}
	case ATLEAST:
		if n < 2 {
			return fmt.Errorf("%w: ATLEAST requires at least 2 arguments, got %d", ErrBadArity, n)
		}
		if k < 2 || k >= n {
			return fmt.Errorf("%w: ATLEAST k=%d must satisfy 2<=k<n=%d", ErrBadArity, k, n)
		}
	case AND, OR:
		if n < 1 {
			return fmt.Errorf("%w: %s requires at least 1 argument, got %d", ErrBadArity, o, n)
		}
	default:
		return fmt.Errorf("%w: unknown operator %d", ErrBadArity, int(o))
	}
	return nil
}

// ArgKind tags which union member of ArgRef is populated.
type ArgKind int

const (
	ArgBasic ArgKind = iota
	ArgHouse
	ArgGate
	ArgUndefined
)

// ArgRef is a single argument of a Formula/Gate: a reference to exactly one
// of a basic event, house event, gate, or undefined event, optionally
// complemented ("~" prefix in the shorthand grammar).
//
// Exactly one of the handle fields is meaningful, selected by Kind; the
// others hold their type's zero/sentinel value.
type ArgRef struct {
	Kind       ArgKind
	Basic      node.BasicHandle
	House      node.HouseHandle
	Gate       node.GateHandle
	Undefined  node.UndefinedHandle
	Complement bool
}

// BasicArg constructs an ArgRef pointing at a basic event.
func BasicArg(h node.BasicHandle, complement bool) ArgRef {
	return ArgRef{Kind: ArgBasic, Basic: h, House: node.NoHouse, Gate: node.NoGate, Undefined: node.NoUndefined, Complement: complement}
}

// HouseArg constructs an ArgRef pointing at a house event.
func HouseArg(h node.HouseHandle, complement bool) ArgRef {
	return ArgRef{Kind: ArgHouse, Basic: node.NoBasic, House: h, Gate: node.NoGate, Undefined: node.NoUndefined, Complement: complement}
}

// GateArg constructs an ArgRef pointing at a nested gate.
func GateArg(h node.GateHandle, complement bool) ArgRef {
	return ArgRef{Kind: ArgGate, Basic: node.NoBasic, House: node.NoHouse, Gate: h, Undefined: node.NoUndefined, Complement: complement}
}

// UndefinedArg constructs an ArgRef pointing at an as-yet-undefined event.
func UndefinedArg(h node.UndefinedHandle, complement bool) ArgRef {
	return ArgRef{Kind: ArgUndefined, Basic: node.NoBasic, House: node.NoHouse, Gate: node.NoGate, Undefined: h, Complement: complement}
}

// Formula is an operator plus its ordered argument list, identical in shape
// to a Gate's top-level body but unnamed — used to express nested Boolean
// structure inline.
type Formula struct {
	Operator  Operator
	KNum      int // only meaningful when Operator == ATLEAST
	Arguments []ArgRef
}

// Mark is the three-colour traversal mark shared by every Gate. It is reset
// to Unmarked at the boundary of every traversal: no algorithm may leave a
// gate in Temporary or leak a Permanent mark across runs, and only one
// traversal may be active over a given FaultTree at a time.
type Mark int

const (
	Unmarked Mark = iota
	Temporary
	Permanent
)

// Gate is a named Formula with its own parent back-references (a Gate can
// itself be another gate's argument) and a traversal Mark used exclusively
// by the dfs package.
type Gate struct {
	node.Base
	Formula
	Mark Mark
}

// New constructs a Gate with an empty argument list and an Unmarked
// traversal state. Arguments are appended by the caller (tree.AddGate binds
// the full list up front; the generator appends incrementally).
func New(name ident.Name, op Operator) *Gate {
	return &Gate{Base: node.NewBase(name), Formula: Formula{Operator: op}, Mark: Unmarked}
}

// NumArguments returns the number of arguments currently bound to the gate.
func (g *Gate) NumArguments() int { return len(g.Arguments) }

// AddArgument appends ref to the gate's argument list. It does not check
// for duplicates or self-reference; tree.Populate and the generator are
// responsible for those checks (repeated-argument detection needs access to
// name strings, which live one layer up, in tree).
func (g *Gate) AddArgument(ref ArgRef) {
	g.Arguments = append(g.Arguments, ref)
}

// Ancestors returns the set of gate handles reachable by walking upward
// through Parents from start, inclusive of start itself: every gate that
// has start as a transitive argument, directly or indirectly. The
// generator's common-gate selection uses this to reject a candidate that
// would close a cycle if added as a new argument of start — a candidate
// already present in this set sits above start, so an edge from start
// down to it would loop back.
func Ancestors(gates []*Gate, start node.GateHandle) map[node.GateHandle]bool {
	seen := map[node.GateHandle]bool{start: true}
	stack := []node.GateHandle{start}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for p := range gates[h].Parents {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return seen
}

// HasArgumentGate reports whether h already appears among g's gate
// arguments (ignoring complement), used by the generator's cycle-avoiding
// common-gate selection to reject a candidate already in g's own argument
// list.
func (g *Gate) HasArgumentGate(h node.GateHandle) bool {
	for _, a := range g.Arguments {
		if a.Kind == ArgGate && a.Gate == h {
			return true
		}
	}
	return false
}

// NumGateArguments returns the count of g's arguments that are themselves
// gates (as opposed to basic/house/undefined events), used by the
// generator to tell a "safe to nest under" leaf-like candidate (no gate
// arguments of its own yet) from one that already has nested structure.
func (g *Gate) NumGateArguments() int {
	n := 0
	for _, a := range g.Arguments {
		if a.Kind == ArgGate {
			n++
		}
	}
	return n
}
