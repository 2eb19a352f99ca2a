package mef_test

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/riskgraph/faulttree/ccf"
	"github.com/riskgraph/faulttree/expr"
	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/mef"
	"github.com/riskgraph/faulttree/node"
	"github.com/riskgraph/faulttree/shorthand"
	"github.com/riskgraph/faulttree/tree"
)

type MEFSuite struct {
	suite.Suite
}

func (s *MEFSuite) parse(src string) (*bytes.Buffer, error) {
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	var buf bytes.Buffer
	err = mef.Write(ft, &buf, 0)
	return &buf, err
}

func (s *MEFSuite) TestBasicStructure() {
	buf, err := s.parse(strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"top := b1 & b2",
	}, "\n"))
	require.NoError(s.T(), err)

	out := buf.String()
	require.True(s.T(), strings.HasPrefix(out, `<opsa-mef><define-fault-tree name="system">`))
	require.Contains(s.T(), out, `<define-gate name="top">`)
	require.Contains(s.T(), out, `<and>`)
	require.Contains(s.T(), out, `<basic-event name="b1"/>`)
	require.Contains(s.T(), out, `<define-basic-event name="b1"><float value="0.1"/></define-basic-event>`)
}

func (s *MEFSuite) TestHouseEventAndComplement() {
	buf, err := s.parse(strings.Join([]string{
		"system",
		"s(h1) = true",
		"p(b1) = 0.1",
		"top := ~h1 | b1",
	}, "\n"))
	require.NoError(s.T(), err)

	out := buf.String()
	require.Contains(s.T(), out, `<not><house-event name="h1"/></not>`)
	require.Contains(s.T(), out, `<define-house-event name="h1"><constant value="true"/></define-house-event>`)
}

func (s *MEFSuite) TestAtleastMinAttribute() {
	buf, err := s.parse(strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"p(b3) = 0.3",
		"top := @(2, [b1, b2, b3])",
	}, "\n"))
	require.NoError(s.T(), err)
	require.Contains(s.T(), buf.String(), `<atleast min="2">`)
}

// TestNestInlinesPrivateNotGates checks nest>0 drops a single-parent NOT
// gate's own <define-gate> element and inlines its formula at the call site
// instead of referencing it by name.
func (s *MEFSuite) TestNestInlinesPrivateNotGates() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"guard := ~b1",
		"top := guard | b2",
	}, "\n")
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)

	var flat bytes.Buffer
	require.NoError(s.T(), mef.Write(ft, &flat, 0))
	require.Contains(s.T(), flat.String(), `<define-gate name="guard">`)
	require.Contains(s.T(), flat.String(), `<gate name="guard"/>`)

	var nested bytes.Buffer
	require.NoError(s.T(), mef.Write(ft, &nested, 1))
	require.NotContains(s.T(), nested.String(), `<define-gate name="guard">`)
	require.Contains(s.T(), nested.String(), `<not><basic-event name="b1"/></not>`)
}

// TestCCFGroupWritten builds directly through the handle-based construction
// path (as the generator does, CCF group included before Populate runs) so
// NonCCFEvents correctly excludes the grouped members.
func (s *MEFSuite) TestCCFGroupWritten() {
	ft := tree.New(ident.MustParse("system"))
	top := ft.ConstructGate(ident.MustParse("top"), gate.OR)
	b1 := ft.ConstructBasicEvent(ident.MustParse("b1"), 0.1)
	b2 := ft.ConstructBasicEvent(ident.MustParse("b2"), 0.2)
	ft.BindArgument(top, gate.BasicArg(b1, false))
	ft.BindArgument(top, gate.BasicArg(b2, false))
	ft.ConstructCCFGroup(ident.MustParse("ccf1"), ccf.MGL, 0.01, []float64{0.1}, []node.BasicHandle{b1, b2})
	require.NoError(s.T(), ft.Populate())

	var out bytes.Buffer
	require.NoError(s.T(), mef.Write(ft, &out, 0))
	body := out.String()
	require.Contains(s.T(), body, `<define-CCF-group name="ccf1" model="MGL">`)
	require.NotContains(s.T(), body, `<define-basic-event name="b1">`)
}

// signature reduces a FaultTree to a name-keyed description that is stable
// across independent parses, where handle indices are not: every gate's
// operator and the sorted list of its argument names (with a "~" prefix for
// a complemented argument). Mirrors aralia_test.go's helper of the same
// name, duplicated here since each writer's round trip needs its own error
// handling and neither package depends on the other's test code.
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

// TestRoundTrip checks that populate -> Write -> Parse reconstructs a
// structurally equivalent fault tree: every gate's operator and argument
// set (by name, complement included) must match the original.
func (s *MEFSuite) TestRoundTrip() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"p(b3) = 0.3",
		"s(h1) = true",
		"mid := @(2, [b1, b2, b3])",
		"top := mid | ~h1",
	}, "\n")
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)

	var buf bytes.Buffer
	require.NoError(s.T(), mef.Write(ft, &buf, 0))

	reparsed, err := mef.Parse(&buf)
	require.NoError(s.T(), err)

	require.Equal(s.T(), ft.Name.String(), reparsed.Name.String())
	if diff := cmp.Diff(signature(ft), signature(reparsed)); diff != "" {
		s.T().Fatalf("round-tripped tree differs (-want +got):\n%s", diff)
	}
}

// TestRoundTrip_CCFGroupAndExpression exercises the round trip for a CCF
// group and an expression-valued basic event, both built through the
// handle-based construction path as the generator uses it.
func (s *MEFSuite) TestRoundTrip_CCFGroupAndExpression() {
	ft := tree.New(ident.MustParse("system"))
	top := ft.ConstructGate(ident.MustParse("top"), gate.AND)
	b1 := ft.ConstructBasicEvent(ident.MustParse("b1"), 0.1)
	b2 := ft.ConstructBasicEvent(ident.MustParse("b2"), 0.2)
	ft.BindArgument(top, gate.BasicArg(b1, false))
	ft.BindArgument(top, gate.BasicArg(b2, true))
	b3, err := ft.AddBasicEventExpr(ident.MustParse("b3"), expr.ParamRef{Name: ident.MustParse("lambda")})
	require.NoError(s.T(), err)
	ft.BindArgument(top, gate.BasicArg(b3, false))
	ft.ConstructCCFGroup(ident.MustParse("ccf1"), ccf.MGL, 0.01, []float64{0.1}, []node.BasicHandle{b1, b2})
	require.NoError(s.T(), ft.Populate())

	var buf bytes.Buffer
	require.NoError(s.T(), mef.Write(ft, &buf, 0))

	reparsed, err := mef.Parse(&buf)
	require.NoError(s.T(), err)

	require.Equal(s.T(), ft.Name.String(), reparsed.Name.String())
	require.Len(s.T(), reparsed.CCFGroups, 1)
	require.Equal(s.T(), "ccf1", reparsed.CCFGroups[0].Name.String())
	if diff := cmp.Diff(signature(ft), signature(reparsed)); diff != "" {
		s.T().Fatalf("round-tripped tree differs (-want +got):\n%s", diff)
	}
}

func (s *MEFSuite) TestParse_RejectsMalformedRoot() {
	_, err := mef.Parse(strings.NewReader(`<not-opsa-mef/>`))
	require.ErrorIs(s.T(), err, mef.ErrMalformed)
}

func TestMEFSuite(t *testing.T) {
	suite.Run(t, new(MEFSuite))
}
