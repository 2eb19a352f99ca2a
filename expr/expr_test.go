package expr_test

import (
	"errors"
	"testing"

	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/ident"
)

func TestLiteral_Eval(t *testing.T) {
	var e expr.Expr = expr.Literal(0.5)
	v, err := e.Eval(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.5 {
		t.Fatalf("got %g, want 0.5", v)
	}
}

func TestParamRef_Eval(t *testing.T) {
	p := expr.ParamRef{Name: ident.MustParse("lambda")}
	params := map[string]float64{"lambda": 1e-4}
	v, err := p.Eval(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1e-4 {
		t.Fatalf("got %g, want 1e-4", v)
	}
}

func TestParamRef_Eval_Unknown(t *testing.T) {
	p := expr.ParamRef{Name: ident.MustParse("missing")}
	_, err := p.Eval(map[string]float64{})
	if !errors.Is(err, expr.ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}

func TestBinary_Eval(t *testing.T) {
	cases := []struct {
		op   expr.Op
		l, r float64
		want float64
	}{
		{expr.Add, 2, 3, 5},
		{expr.Sub, 5, 3, 2},
		{expr.Mul, 2, 3, 6},
		{expr.Div, 6, 3, 2},
	}
	for _, c := range cases {
		b := expr.Binary{Op: c.op, Left: expr.Literal(c.l), Right: expr.Literal(c.r)}
		v, err := b.Eval(nil)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c.op, err)
		}
		if v != c.want {
			t.Fatalf("%v: got %g, want %g", c.op, v, c.want)
		}
	}
}

func TestBinary_Eval_PropagatesError(t *testing.T) {
	b := expr.Binary{
		Op:    expr.Add,
		Left:  expr.ParamRef{Name: ident.MustParse("missing")},
		Right: expr.Literal(1),
	}
	if _, err := b.Eval(nil); !errors.Is(err, expr.ErrUnknownParameter) {
		t.Fatalf("expected error to propagate from Left, got %v", err)
	}
}

func TestValidateLiteral(t *testing.T) {
	for _, p := range []float64{0, 0.5, 1} {
		if err := expr.ValidateLiteral(p); err != nil {
			t.Fatalf("ValidateLiteral(%g): unexpected error: %v", p, err)
		}
	}
	for _, p := range []float64{-0.1, 1.1} {
		if err := expr.ValidateLiteral(p); !errors.Is(err, expr.ErrOutOfRange) {
			t.Fatalf("ValidateLiteral(%g): expected ErrOutOfRange, got %v", p, err)
		}
	}
}

func TestOp_String(t *testing.T) {
	cases := map[expr.Op]string{expr.Add: "+", expr.Sub: "-", expr.Mul: "*", expr.Div: "/"}
	for op, want := range cases {
		if op.String() != want {
			t.Fatalf("%v.String() = %q, want %q", op, op.String(), want)
		}
	}
}
