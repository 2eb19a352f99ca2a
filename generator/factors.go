package generator

import (
	"math/rand"

	"github.com/riskgraph/faulttree/gate"
)

// operatorOrder is the fixed [AND, OR, ATLEAST, NOT, XOR] weight-vector
// order. Order matters: a caller's weight slice is positional against this.
var operatorOrder = [5]gate.Operator{gate.AND, gate.OR, gate.ATLEAST, gate.NOT, gate.XOR}

// minArgsByOperator mirrors operatorOrder: the floor argument count the
// generator samples for each operator (K/N's floor is 3, not 2, since a
// useful K/N gate needs at least 3 arguments to have a non-trivial k).
var minArgsByOperator = [5]int{2, 2, 3, 1, 2}

// Factors collects every knob that determines the size and shape of a
// generated fault tree. It is built through functional options passed to
// NewFactors and finalized by a single call to Calculate, which derives the
// internal sampling parameters every Generate call needs.
type Factors struct {
	MinProb float64
	MaxProb float64

	NumArgs  float64
	NumBasic int
	NumHouse int
	NumCCF   int

	CommonB  float64
	CommonG  float64
	ParentsB float64
	ParentsG float64

	WeightsG [5]float64

	// NumGate, when non-zero, is the target gate count: Calculate
	// recalibrates CommonB/CommonG/ParentsB/ParentsG toward it (see
	// constrainNumGate). Growth is random, so the generated tree's gate
	// count only approximates it.
	NumGate int

	// derived by Calculate
	maxArgs      float64
	ratio        float64
	percentBasic float64
	percentGate  float64
	normWeights  [5]float64
	cumDist      [6]float64
}

// Option configures a Factors value under construction.
type Option func(*Factors)

// WithProbRange sets the inclusive sampling range for basic-event
// probabilities.
func WithProbRange(min, max float64) Option {
	return func(f *Factors) { f.MinProb, f.MaxProb = min, max }
}

// WithNumFactors sets the size factors: the average number of gate
// arguments, the basic-event count, the house-event count, and the CCF
// group count.
func WithNumFactors(numArgs float64, numBasic, numHouse, numCCF int) Option {
	return func(f *Factors) {
		f.NumArgs, f.NumBasic, f.NumHouse, f.NumCCF = numArgs, numBasic, numHouse, numCCF
	}
}

// WithCommonEventFactors sets the shared-node reuse factors: the average
// fraction of a gate's arguments that are shared basic events / gates, and
// the average number of parents a shared basic event / gate ends up with.
func WithCommonEventFactors(commonB, commonG, parentsB, parentsG float64) Option {
	return func(f *Factors) {
		f.CommonB, f.CommonG, f.ParentsB, f.ParentsG = commonB, commonG, parentsB, parentsG
	}
}

// WithGateWeights sets the [AND, OR, K/N, NOT, XOR] sampling weight vector.
// Missing trailing entries are treated as 0.
func WithGateWeights(weights ...float64) Option {
	return func(f *Factors) {
		var w [5]float64
		copy(w[:], weights)
		f.WeightsG = w
	}
}

// WithNumGate constrains the generator to a specific total gate count,
// overriding the estimate Calculate would otherwise derive from NumBasic.
func WithNumGate(n int) Option {
	return func(f *Factors) { f.NumGate = n }
}

// NewFactors builds a Factors value from defaults (min_prob=0, max_prob=1,
// parents_b=parents_g=2) plus opts, applied in order.
func NewFactors(opts ...Option) *Factors {
	f := &Factors{MinProb: 0, MaxProb: 1, ParentsB: 2, ParentsG: 2}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Validate checks every range constraint before Calculate runs. Practical
// limits (common fraction capped at 0.9, parent counts capped at 100)
// mirror the generator's own guardrails, not a formal model constraint.
func (f *Factors) Validate() error {
	const maxCommon = 0.9
	const maxParent = 100.0

	switch {
	case f.MinProb < 0 || f.MinProb > 1:
		return factorErrf("min probability must be in [0, 1] range")
	case f.MaxProb < 0 || f.MaxProb > 1:
		return factorErrf("max probability must be in [0, 1] range")
	case f.MinProb > f.MaxProb:
		return factorErrf("min probability > max probability")
	case f.NumArgs < 2:
		return factorErrf("avg. number of gate arguments can't be less than 2")
	case f.NumBasic < 1:
		return factorErrf("number of basic events must be more than 0")
	case f.NumHouse < 0:
		return factorErrf("number of house events can't be negative")
	case f.NumCCF < 0:
		return factorErrf("number of CCF groups can't be negative")
	case f.NumHouse >= f.NumBasic:
		return factorErrf("too many house events")
	case float64(f.NumCCF) > float64(f.NumBasic)/f.NumArgs:
		return factorErrf("too many CCF groups")
	case f.CommonB <= 0 || f.CommonB > maxCommon:
		return factorErrf("common_b not in (0, %g]", maxCommon)
	case f.CommonG <= 0 || f.CommonG > maxCommon:
		return factorErrf("common_g not in (0, %g]", maxCommon)
	case f.ParentsB < 2 || f.ParentsB > maxParent:
		return factorErrf("parents_b not in [2, %g]", maxParent)
	case f.ParentsG < 2 || f.ParentsG > maxParent:
		return factorErrf("parents_g not in [2, %g]", maxParent)
	}

	sum := 0.0
	neg := false
	for _, w := range f.WeightsG {
		if w < 0 {
			neg = true
		}
		sum += w
	}
	if neg {
		return factorErrf("weights cannot be negative")
	}
	if sum == 0 {
		return factorErrf("at least one non-zero weight is needed")
	}
	if f.WeightsG[0] == 0 && f.WeightsG[1] == 0 && f.WeightsG[2] == 0 {
		return factorErrf("cannot work with only NOT or XOR gates")
	}
	if f.NumGate != 0 {
		if f.NumGate < 1 {
			return factorErrf("number of gates can't be less than 1")
		}
		if float64(f.NumGate)*f.NumArgs <= float64(f.NumBasic) {
			return factorErrf("not enough gates and avg. number of args to achieve the number of basic events")
		}
	}
	return nil
}

// Calculate derives every internal sampling parameter from the public
// fields. It must run after Validate succeeds and before Generate, once:
// when NumGate is set, it overwrites CommonB/CommonG/ParentsB/ParentsG, so
// a second call recalibrates from the already adjusted values.
func (f *Factors) Calculate() {
	sum := 0.0
	for _, w := range f.WeightsG {
		sum += w
	}
	for i, w := range f.WeightsG {
		f.normWeights[i] = w / sum
	}
	f.cumDist[0] = 0
	for i := 0; i < 5; i++ {
		f.cumDist[i+1] = f.cumDist[i] + f.normWeights[i]
	}

	if f.NumGate != 0 {
		f.constrainNumGate()
	}

	f.maxArgs = f.calculateMaxArgs()
	gFactor := 1 - f.CommonG + f.CommonG/f.ParentsG
	f.ratio = f.NumArgs*gFactor - 1
	f.percentBasic = f.ratio / (1 + f.ratio)
	f.percentGate = 1 / (1 + f.ratio)
}

// calculateMaxArgs computes the upper bound for sampling the number of
// gate arguments. AND/OR/K-N gates draw uniformly from a symmetric range
// around an average, so their contribution folds min+max into 2*average;
// NOT and XOR have a fixed (min==max) argument count and contribute a
// constant instead.
func (f *Factors) calculateMaxArgs() float64 {
	constArgs := 0.0
	constWeight := 0.0
	for i := 3; i < 5; i++ {
		constArgs += float64(minArgsByOperator[i]) * f.normWeights[i]
		constWeight += f.normWeights[i]
	}
	varArgs := 0.0
	varWeight := 0.0
	for i := 0; i < 3; i++ {
		varArgs += float64(minArgsByOperator[i]) * f.normWeights[i]
		varWeight += f.normWeights[i]
	}
	return (2*f.NumArgs - varArgs - 2*constArgs) / varWeight
}

// constrainNumGate recalibrates CommonB/CommonG/ParentsB/ParentsG so the
// expected gate count matches NumGate; without this, NumGate and
// NumBasic together overdetermine the system, and the factors the caller
// supplied for common-event reuse would be inconsistent with both.
func (f *Factors) constrainNumGate() {
	alpha := float64(f.NumGate) / float64(f.NumBasic)
	common := f.CommonG
	if f.CommonB > common {
		common = f.CommonB
	}
	minCommon := 1 - (1+alpha)/f.NumArgs/alpha
	switch {
	case common < minCommon:
		common = roundTo1(minCommon + 0.05)
	case common > 2*minCommon:
		common = 2 * minCommon
	}
	f.CommonG = common
	f.CommonB = common
	parents := 1 / (1 - minCommon/common)
	if parents <= 2 {
		parents = 2
	}
	f.ParentsG = parents
	f.ParentsB = parents
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// randomOperator samples a gate operator from the normalized weight
// vector's cumulative distribution.
func (f *Factors) randomOperator(rng *rand.Rand) gate.Operator {
	r := rng.Float64()
	bin := 1
	for f.cumDist[bin] <= r {
		bin++
	}
	return operatorOrder[bin-1]
}

// numGate estimates the total number of gates the tree will need, given
// NumBasic and the common-basic-event reuse factors — or returns the
// caller-constrained count verbatim if one was set.
func (f *Factors) numGate() int {
	if f.NumGate != 0 {
		return f.NumGate
	}
	bFactor := 1 - f.CommonB + f.CommonB/f.ParentsB
	return int(float64(f.NumBasic) / (f.percentBasic * f.NumArgs * bFactor))
}

// numCommonBasics estimates how many basic events, out of NumBasic, should
// be pre-built as a shared pool so their average parent count across the
// whole tree comes out to ParentsB.
func (f *Factors) numCommonBasics(numGate int) int {
	return int(f.CommonB * f.percentBasic * f.NumArgs * float64(numGate) / f.ParentsB)
}

// numCommonGates is numCommonBasics' analogue for shared intermediate gates.
func (f *Factors) numCommonGates(numGate int) int {
	return int(f.CommonG * f.percentGate * f.NumArgs * float64(numGate) / f.ParentsG)
}

// numArgsFor samples the number of arguments for g, setting g's KNum as a
// side effect when the operator is ATLEAST.
func (f *Factors) numArgsFor(rng *rand.Rand, g *gate.Gate) int {
	switch g.Operator {
	case gate.NOT:
		return 1
	case gate.XOR:
		return 2
	}

	maxArgs := int(f.maxArgs)
	if rng.Float64() < f.maxArgs-float64(maxArgs) {
		maxArgs++
	}

	if g.Operator == gate.ATLEAST {
		if maxArgs < 3 {
			maxArgs = 3
		}
		n := 3 + rng.Intn(maxArgs-3+1)
		g.KNum = 2 + rng.Intn(n-1-2+1)
		return n
	}
	return 2 + rng.Intn(maxArgs-2+1)
}

// randomNonDegenerateOperator samples an operator suitable for the tree's
// single root gate: neither XOR nor NOT, since a root of either kind would
// make the whole tree structurally trivial (a root gate exists precisely
// to combine more than one cause).
func (f *Factors) randomNonDegenerateOperator(rng *rand.Rand) gate.Operator {
	op := f.randomOperator(rng)
	for op == gate.XOR || op == gate.NOT {
		op = f.randomOperator(rng)
	}
	return op
}
