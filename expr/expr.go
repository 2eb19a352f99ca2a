package expr

import (
	"errors"
	"fmt"

	"github.com/riskgraph/faulttree/ident"
)

// ErrOutOfRange indicates a literal probability outside the closed [0,1]
// interval.
var ErrOutOfRange = errors.New("expr: probability literal out of [0,1]")

// ErrUnknownParameter indicates a Parameter reference that names a
// parameter the caller never registered.
var ErrUnknownParameter = errors.New("expr: unknown parameter reference")

// Op identifies the arithmetic combinator for a Binary expression.
type Op int

// Supported arithmetic operators for numeric expression trees. The set is
// intentionally small: the toolkit's job is to represent probability
// expressions for serialization, not to be a general calculator.
const (
	Add Op = iota
	Sub
	Mul
	Div
)

// String renders the operator using its conventional infix symbol.
func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Expr is a node in a numeric expression tree. Implementations are Literal,
// ParamRef, and Binary.
type Expr interface {
	// Eval resolves the expression to a float64, looking up any ParamRef
	// nodes in params (keyed by ident.Name.Key()). Eval does not itself
	// constrain the result to [0,1]; range checks are a Validate concern.
	Eval(params map[string]float64) (float64, error)
	isExpr()
}

// Literal is a bare numeric constant.
type Literal float64

func (l Literal) Eval(map[string]float64) (float64, error) { return float64(l), nil }
func (Literal) isExpr()                                    {}

// ParamRef refers to a named Parameter defined elsewhere in the fault tree
// (or supplied externally). Resolution is late-bound, mirroring how gate
// arguments resolve at FaultTree.Populate time.
type ParamRef struct {
	Name ident.Name
}

func (p ParamRef) Eval(params map[string]float64) (float64, error) {
	v, ok := params[p.Name.Key()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, p.Name)
	}
	return v, nil
}
func (ParamRef) isExpr() {}

// Binary combines two sub-expressions with an Op.
type Binary struct {
	Op          Op
	Left, Right Expr
}

func (b Binary) Eval(params map[string]float64) (float64, error) {
	l, err := b.Left.Eval(params)
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval(params)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	case Mul:
		return l * r, nil
	case Div:
		return l / r, nil
	default:
		return 0, fmt.Errorf("expr: unknown operator %v", b.Op)
	}
}
func (Binary) isExpr() {}

// ValidateLiteral checks that a literal probability lies in the closed
// [0,1] interval. Expression-valued probabilities
// (ParamRef, Binary) are not checked here — their eventual numeric value is
// only known once an external quantification engine resolves parameters.
func ValidateLiteral(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: %g", ErrOutOfRange, p)
	}
	return nil
}
