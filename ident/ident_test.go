package ident_test

import (
	"errors"
	"testing"

	"github.com/riskgraph/faulttree/ident"
)

func TestParse_Valid(t *testing.T) {
	cases := []string{"a", "Gate1", "top-gate", "a-b-c", "A_1"}
	for _, s := range cases {
		n, err := ident.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", s, err)
		}
		if n.String() != s {
			t.Fatalf("Parse(%q).String() = %q, want %q", s, n.String(), s)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{"", "1abc", "a--b", "a-", "-a", "a b", "a.b"}
	for _, s := range cases {
		if _, err := ident.Parse(s); err == nil {
			t.Fatalf("Parse(%q): expected error, got nil", s)
		}
	}
}

func TestParse_EmptyIsDistinctSentinel(t *testing.T) {
	_, err := ident.Parse("")
	if !errors.Is(err, ident.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestKey_CaseInsensitive(t *testing.T) {
	a := ident.MustParse("Gate1")
	b := ident.MustParse("gate1")
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys for case variants, got %q vs %q", a.Key(), b.Key())
	}
	if a.String() == b.String() {
		t.Fatalf("expected case-preserving String() to differ")
	}
}
