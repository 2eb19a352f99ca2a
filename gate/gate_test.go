package gate_test

import (
	"errors"
	"testing"

	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/node"
)

func TestOperator_ValidateArity(t *testing.T) {
	cases := []struct {
		op      gate.Operator
		n, k    int
		wantErr bool
	}{
		{gate.NOT, 1, 0, false},
		{gate.NOT, 2, 0, true},
		{gate.XOR, 2, 0, false},
		{gate.XOR, 1, 0, true},
		{gate.ATLEAST, 3, 2, false},
		{gate.ATLEAST, 3, 1, true},
		{gate.ATLEAST, 3, 3, true},
		{gate.AND, 1, 0, false},
		{gate.OR, 0, 0, true},
	}
	for _, c := range cases {
		err := c.op.ValidateArity(c.n, c.k)
		if (err != nil) != c.wantErr {
			t.Fatalf("%v.ValidateArity(%d,%d) error=%v, wantErr=%v", c.op, c.n, c.k, err, c.wantErr)
		}
		if c.wantErr && !errors.Is(err, gate.ErrBadArity) {
			t.Fatalf("%v.ValidateArity(%d,%d): expected ErrBadArity, got %v", c.op, c.n, c.k, err)
		}
	}
}

func TestGate_AddArgument(t *testing.T) {
	g := gate.New(ident.MustParse("top"), gate.AND)
	if g.NumArguments() != 0 {
		t.Fatalf("fresh gate should have 0 arguments")
	}
	g.AddArgument(gate.BasicArg(node.BasicHandle(0), false))
	g.AddArgument(gate.GateArg(node.GateHandle(1), true))
	if g.NumArguments() != 2 {
		t.Fatalf("NumArguments() = %d, want 2", g.NumArguments())
	}
	if g.NumGateArguments() != 1 {
		t.Fatalf("NumGateArguments() = %d, want 1", g.NumGateArguments())
	}
	if !g.HasArgumentGate(node.GateHandle(1)) {
		t.Fatalf("HasArgumentGate(1) should be true")
	}
	if g.HasArgumentGate(node.GateHandle(2)) {
		t.Fatalf("HasArgumentGate(2) should be false")
	}
}

// TestAncestors builds a small diamond: top -> mid -> leaf, top -> leaf,
// and checks that Ancestors(leaf) includes every gate above it.
func TestAncestors(t *testing.T) {
	top := gate.New(ident.MustParse("top"), gate.AND)
	mid := gate.New(ident.MustParse("mid"), gate.AND)
	leaf := gate.New(ident.MustParse("leaf"), gate.OR)

	gates := []*gate.Gate{top, mid, leaf}
	const topH, midH, leafH = node.GateHandle(0), node.GateHandle(1), node.GateHandle(2)

	mid.AddParent(topH)
	leaf.AddParent(midH)
	leaf.AddParent(topH)

	anc := gate.Ancestors(gates, leafH)
	for _, want := range []node.GateHandle{leafH, midH, topH} {
		if !anc[want] {
			t.Fatalf("Ancestors(leaf) missing handle %d", want)
		}
	}
	if len(anc) != 3 {
		t.Fatalf("Ancestors(leaf) = %v, want 3 entries", anc)
	}
}

func TestOperator_String(t *testing.T) {
	cases := map[gate.Operator]string{
		gate.AND: "and", gate.OR: "or", gate.ATLEAST: "atleast",
		gate.NOT: "not", gate.XOR: "xor", gate.NULL: "null",
	}
	for op, want := range cases {
		if op.String() != want {
			t.Fatalf("%d.String() = %q, want %q", op, op.String(), want)
		}
	}
}
