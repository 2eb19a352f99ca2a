package generator_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/generator"
)

func defaultFactors() *generator.Factors {
	return generator.NewFactors(
		generator.WithProbRange(0.01, 0.1),
		generator.WithNumFactors(3, 50, 2, 1),
		generator.WithCommonEventFactors(0.1, 0.1, 2, 2),
		generator.WithGateWeights(1, 1, 0, 0, 0),
	)
}

type GeneratorSuite struct {
	suite.Suite
}

func (s *GeneratorSuite) TestValidate_RejectsOutOfRangeProb() {
	f := defaultFactors()
	f.MinProb = -0.1
	require.ErrorIs(s.T(), f.Validate(), generator.FactorError)
}

func (s *GeneratorSuite) TestValidate_RejectsMinAboveMax() {
	f := defaultFactors()
	f.MinProb, f.MaxProb = 0.5, 0.1
	require.ErrorIs(s.T(), f.Validate(), generator.FactorError)
}

func (s *GeneratorSuite) TestValidate_RejectsAllNotXorWeights() {
	f := defaultFactors()
	f.WeightsG = [5]float64{0, 0, 0, 1, 1}
	require.ErrorIs(s.T(), f.Validate(), generator.FactorError)
}

func (s *GeneratorSuite) TestValidate_RejectsTooManyHouseEvents() {
	f := defaultFactors()
	f.NumHouse = f.NumBasic
	require.ErrorIs(s.T(), f.Validate(), generator.FactorError)
}

func (s *GeneratorSuite) TestValidate_AcceptsWellFormedFactors() {
	f := defaultFactors()
	require.NoError(s.T(), f.Validate())
}

// TestGenerate_DeterministicForSameSeed checks that two Generate calls with
// identical factors and seed produce the same gate/basic-event counts and
// the same root operator — the breadth-first growth is driven entirely by
// the seeded *rand.Rand, so repeat runs must agree exactly.
func (s *GeneratorSuite) TestGenerate_DeterministicForSameSeed() {
	f1 := defaultFactors()
	require.NoError(s.T(), f1.Validate())
	f1.Calculate()
	ft1, err := generator.Generate(42, "tree1", "top", f1)
	require.NoError(s.T(), err)

	f2 := defaultFactors()
	f2.Calculate()
	ft2, err := generator.Generate(42, "tree1", "top", f2)
	require.NoError(s.T(), err)

	require.Equal(s.T(), len(ft1.Gates), len(ft2.Gates))
	require.Equal(s.T(), len(ft1.BasicEvents), len(ft2.BasicEvents))
	require.Equal(s.T(), ft1.GateAt(ft1.TopGate).Operator, ft2.GateAt(ft2.TopGate).Operator)
}

// TestGenerate_ProducesPopulatedTree checks the returned tree already has a
// resolved TopGate and no leftover undefined events (the generator always
// binds concrete handles, never names).
func (s *GeneratorSuite) TestGenerate_ProducesPopulatedTree() {
	f := defaultFactors()
	require.NoError(s.T(), f.Validate())
	f.Calculate()

	ft, err := generator.Generate(7, "sample", "top", f)
	require.NoError(s.T(), err)
	require.True(s.T(), ft.TopGate >= 0)
	require.Empty(s.T(), ft.UndefinedEvents)
	require.Equal(s.T(), len(ft.BasicEvents), f.NumBasic)
}

func (s *GeneratorSuite) TestGenerate_HonorsNumHouseAndNumCCF() {
	f := generator.NewFactors(
		generator.WithProbRange(0.01, 0.1),
		generator.WithNumFactors(4, 80, 5, 2),
		generator.WithCommonEventFactors(0.1, 0.1, 2, 2),
		generator.WithGateWeights(1, 1, 0, 0, 0),
	)
	require.NoError(s.T(), f.Validate())
	f.Calculate()

	ft, err := generator.Generate(99, "sample", "top", f)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 5, len(ft.HouseEvents))
	require.LessOrEqual(s.T(), len(ft.CCFGroups), 2)
}

func (s *GeneratorSuite) TestGenerate_RejectsBadName() {
	f := defaultFactors()
	f.Calculate()
	_, err := generator.Generate(1, "1bad", "top", f)
	require.Error(s.T(), err)
}

// TestComplexity_ObservedFractionsAreSane checks the observed-complexity
// report stays within the unit interval for a generated tree.
func (s *GeneratorSuite) TestComplexity_ObservedFractionsAreSane() {
	f := defaultFactors()
	f.Calculate()
	ft, err := generator.Generate(5, "sample", "top", f)
	require.NoError(s.T(), err)

	report := generator.Complexity(ft)
	require.GreaterOrEqual(s.T(), report.FracB, 0.0)
	require.LessOrEqual(s.T(), report.FracB, 1.0)
	require.GreaterOrEqual(s.T(), report.CommonB, 0.0)
	require.LessOrEqual(s.T(), report.CommonB, 1.0)
}

func (s *GeneratorSuite) TestSummarize_MentionsSeedAndName() {
	f := defaultFactors()
	f.Calculate()
	ft, err := generator.Generate(3, "sample", "top", f)
	require.NoError(s.T(), err)

	summary := generator.Summarize(ft, f, 3)
	require.Contains(s.T(), summary, "sample")
	require.Contains(s.T(), summary, "3")
}

func (s *GeneratorSuite) TestFromYAML_PartialDocument() {
	doc := "num_basic: 30\nnum_args: 3\nweights_g: [1, 1, 0, 0, 0]\n"
	f, err := generator.FromYAML(strings.NewReader(doc))
	require.NoError(s.T(), err)
	require.Equal(s.T(), 30, f.NumBasic)
	require.Equal(s.T(), [5]float64{1, 1, 0, 0, 0}, f.WeightsG)
	require.Equal(s.T(), 0.0, f.MinProb)
}

func (s *GeneratorSuite) TestFromYAML_RejectsMalformedDocument() {
	_, err := generator.FromYAML(strings.NewReader("not: [valid"))
	require.Error(s.T(), err)
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func TestOperatorWeightOrdering(t *testing.T) {
	// A weight vector favoring only OR should never sample AND/ATLEAST/NOT/XOR.
	f := generator.NewFactors(
		generator.WithProbRange(0.01, 0.1),
		generator.WithNumFactors(3, 20, 0, 0),
		generator.WithCommonEventFactors(0.1, 0.1, 2, 2),
		generator.WithGateWeights(0, 1, 0, 0, 0),
	)
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Calculate()
	ft, err := generator.Generate(11, "sample", "top", f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, g := range ft.Gates {
		if g.Operator != gate.OR {
			t.Fatalf("expected every gate to be OR, found %v", g.Operator)
		}
	}
}

func TestFactorErrorIsDistinctFromOtherErrors(t *testing.T) {
	if errors.Is(errors.New("unrelated"), generator.FactorError) {
		t.Fatalf("an unrelated error must not satisfy errors.Is(_, FactorError)")
	}
}
