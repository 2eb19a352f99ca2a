package shorthand_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/shorthand"
)

type ParseSuite struct {
	suite.Suite
}

func (s *ParseSuite) TestBasicTree() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"top := b1 & b2",
	}, "\n")

	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	require.Equal(s.T(), "system", ft.Name.String())
	require.Equal(s.T(), gate.AND, ft.GateAt(ft.TopGate).Operator)
	require.Len(s.T(), ft.GateAt(ft.TopGate).Arguments, 2)
}

func (s *ParseSuite) TestOrAndNot() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"mid := b1 | b2",
		"top := ~mid",
	}, "\n")

	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	require.Equal(s.T(), gate.NOT, ft.GateAt(ft.TopGate).Operator)
}

func (s *ParseSuite) TestAtleast() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"p(b3) = 0.3",
		"top := @(2, [b1, b2, b3])",
	}, "\n")

	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	g := ft.GateAt(ft.TopGate)
	require.Equal(s.T(), gate.ATLEAST, g.Operator)
	require.Equal(s.T(), 2, g.KNum)
	require.Len(s.T(), g.Arguments, 3)
}

func (s *ParseSuite) TestHouseEventAndComplement() {
	src := strings.Join([]string{
		"system",
		"s(h1) = true",
		"p(b1) = 0.1",
		"top := ~h1 | b1",
	}, "\n")

	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	require.True(s.T(), ft.House(0).State)
	found := false
	for _, a := range ft.GateAt(ft.TopGate).Arguments {
		if a.Kind == gate.ArgHouse && a.Complement {
			found = true
		}
	}
	require.True(s.T(), found, "expected a complemented house-event argument")
}

func (s *ParseSuite) TestMissingNameIsFormatError() {
	_, err := shorthand.Parse(strings.NewReader(""))
	var fe *shorthand.FormatError
	require.ErrorAs(s.T(), err, &fe)
}

func (s *ParseSuite) TestMalformedProbabilityIsParsingError() {
	src := "system\np(b1) = notanumber\n"
	_, err := shorthand.Parse(strings.NewReader(src))
	var pe *shorthand.ParsingError
	require.ErrorAs(s.T(), err, &pe)
}

func (s *ParseSuite) TestMixedOperatorsRejected() {
	src := strings.Join([]string{
		"system",
		"p(b1) = 0.1",
		"p(b2) = 0.2",
		"top := b1 & b2 | b1",
	}, "\n")
	_, err := shorthand.Parse(strings.NewReader(src))
	require.Error(s.T(), err)
}

func (s *ParseSuite) TestUndefinedReferencesArePromoted() {
	src := strings.Join([]string{
		"system",
		"top := ghost & ghost2",
	}, "\n")
	ft, err := shorthand.Parse(strings.NewReader(src))
	require.NoError(s.T(), err)
	require.Len(s.T(), ft.UndefinedEvents, 2)
}

func TestParseSuite(t *testing.T) {
	suite.Run(t, new(ParseSuite))
}
