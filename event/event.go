package event

import (
	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/node"
)

// BasicEvent is a leaf representing an independent component failure. Its
// probability is either a bare literal in [0,1] or a reference into the
// expr package (a Parameter or arithmetic combination of parameters).
//
// Lifecycle: created during parsing/generation, never mutated after
// FaultTree.Populate runs.
type BasicEvent struct {
	node.Base
	// Prob is set when the probability is a literal float. Use HasLiteral
	// to distinguish "probability 0" from "no literal, see Expression".
	Prob       float64
	HasLiteral bool
	// Expression is set when the probability is expression-valued
	// (parameter reference or arithmetic combination). Nil when HasLiteral.
	Expression expr.Expr
}

// NewLiteral constructs a BasicEvent whose probability is the literal p.
func NewLiteral(name ident.Name, p float64) *BasicEvent {
	return &BasicEvent{Base: node.NewBase(name), Prob: p, HasLiteral: true}
}

// NewExpression constructs a BasicEvent whose probability is expression-valued.
func NewExpression(name ident.Name, e expr.Expr) *BasicEvent {
	return &BasicEvent{Base: node.NewBase(name), Expression: e}
}

// HouseEvent is a boolean-constant leaf modeling a configuration switch.
type HouseEvent struct {
	node.Base
	State bool
}

// NewHouseEvent constructs a HouseEvent with the given boolean state.
func NewHouseEvent(name ident.Name, state bool) *HouseEvent {
	return &HouseEvent{Base: node.NewBase(name), State: state}
}

// StateString renders State the way the shorthand/MEF formats expect:
// "true" or "false".
func (h *HouseEvent) StateString() string {
	if h.State {
		return "true"
	}
	return "false"
}

// UndefinedEvent is a name a gate referenced but that was never declared.
// Tolerated with a warning by the lenient (shorthand) construction flow;
// rejected as an error by the strict (XML) flow. Carries only a name and
// its parent set.
type UndefinedEvent struct {
	node.Base
}

// NewUndefinedEvent constructs an UndefinedEvent placeholder for name.
func NewUndefinedEvent(name ident.Name) *UndefinedEvent {
	return &UndefinedEvent{Base: node.NewBase(name)}
}
