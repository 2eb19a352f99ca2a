package aralia_test

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/riskgraph/faulttree/aralia"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/shorthand"
	"github.com/riskgraph/faulttree/tree"
)

type AraliaSuite struct {
	suite.Suite
}

func (s *AraliaSuite) buildTree() *tree.FaultTree {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"s(h1) = true",
		"mid := b1 & b2",
		"top := mid | h1",
	}, "\n")
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	return ft
}

// signature reduces a FaultTree to a name-keyed description that is stable
// across independent parses, where handle indices are not: every gate's
// operator and the sorted list of its argument names (with a "~" prefix for
// a complemented argument).
func signature(ft *tree.FaultTree) map[string][]string {
	out := make(map[string][]string)
	for _, g := range ft.Gates {
		var args []string
		for _, a := range g.Arguments {
			var name string
			switch a.Kind {
			case gate.ArgBasic:
				name = ft.Basic(a.Basic).Name.String()
			case gate.ArgHouse:
				name = ft.House(a.House).Name.String()
			case gate.ArgGate:
				name = ft.GateAt(a.Gate).Name.String()
			case gate.ArgUndefined:
				name = ft.Undefined(a.Undefined).Name.String()
			}
			if a.Complement {
				name = "~" + name
			}
			args = append(args, name)
		}
		sort.Strings(args)
		out[g.Name.Key()] = append([]string{g.Operator.String()}, args...)
	}
	return out
}

// TestRoundTrip writes a parsed tree back out as Aralia shorthand, reparses
// it, and checks the two trees' gate structure agrees name-for-name — since
// Aralia's output grammar is exactly the shorthand input grammar, Write
// followed by shorthand.Parse must reconstruct an equivalent tree.
func (s *AraliaSuite) TestRoundTrip() {
	ft := s.buildTree()

	var buf bytes.Buffer
	require.NoError(s.T(), aralia.Write(ft, &buf))

	reparsed, err := shorthand.Parse(&buf)
	require.NoError(s.T(), err)

	require.Equal(s.T(), ft.Name.String(), reparsed.Name.String())
	if diff := cmp.Diff(signature(ft), signature(reparsed)); diff != "" {
		s.T().Fatalf("round-tripped tree differs (-want +got):\n%s", diff)
	}
}

func (s *AraliaSuite) TestUndefinedArgumentRejected() {
	src := "system\ntop := ghost\n"
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)

	var buf bytes.Buffer
	err = aralia.Write(ft, &buf)
	require.ErrorIs(s.T(), err, aralia.ErrUndefinedArgument)
}

func (s *AraliaSuite) TestAtleastFormatting() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"p(b3) = 0.3",
		"top := @(2, [b1, b2, b3])",
	}, "\n")
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)

	var buf bytes.Buffer
	require.NoError(s.T(), aralia.Write(ft, &buf))
	require.Contains(s.T(), buf.String(), "@(2, [")
}

func TestAraliaSuite(t *testing.T) {
	suite.Run(t, new(AraliaSuite))
}
