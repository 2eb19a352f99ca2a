package event_test

import (
	"testing"

	"github.com/riskgraph/faulttree/event"
	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/ident"
)

func TestNewLiteral(t *testing.T) {
	b := event.NewLiteral(ident.MustParse("e1"), 0.25)
	if !b.HasLiteral {
		t.Fatalf("expected HasLiteral true")
	}
	if b.Prob != 0.25 {
		t.Fatalf("Prob = %g, want 0.25", b.Prob)
	}
	if b.Expression != nil {
		t.Fatalf("expected nil Expression for literal event")
	}
}

func TestNewExpression(t *testing.T) {
	e := expr.Literal(0.1)
	b := event.NewExpression(ident.MustParse("e1"), e)
	if b.HasLiteral {
		t.Fatalf("expected HasLiteral false")
	}
	if b.Expression == nil {
		t.Fatalf("expected non-nil Expression")
	}
}

func TestHouseEvent_StateString(t *testing.T) {
	on := event.NewHouseEvent(ident.MustParse("h1"), true)
	off := event.NewHouseEvent(ident.MustParse("h2"), false)
	if on.StateString() != "true" {
		t.Fatalf("StateString() = %q, want true", on.StateString())
	}
	if off.StateString() != "false" {
		t.Fatalf("StateString() = %q, want false", off.StateString())
	}
}

func TestNewUndefinedEvent(t *testing.T) {
	u := event.NewUndefinedEvent(ident.MustParse("u1"))
	if !u.IsOrphan() {
		t.Fatalf("fresh undefined event should be an orphan")
	}
}
