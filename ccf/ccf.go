package ccf

import (
	"errors"
	"fmt"
	"math"

	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/node"
)

// Model is the CCF factor-decomposition model tag.
type Model string

// Recognized model tags.
const (
	MGL   Model = "MGL"
	Alpha Model = "alpha"
	Beta  Model = "beta"
	Phi   Model = "phi"
)

// ErrTooFewMembers indicates a CCF group with fewer than 2 basic-event
// members.
var ErrTooFewMembers = errors.New("ccf: group requires at least 2 members")

// ErrNegativeFactor indicates a negative numeric factor, which is never
// valid under any model.
var ErrNegativeFactor = errors.New("ccf: factor must be non-negative")

// ErrPhiFactorsMustSumToOne indicates a phi-model group whose factors do
// not sum to 1, the one model-specific constraint enforced unconditionally.
var ErrPhiFactorsMustSumToOne = errors.New("ccf: phi-model factors must sum to 1")

// phiSumTolerance absorbs float64 accumulation error when checking the
// phi-model sum-to-one constraint.
const phiSumTolerance = 1e-9

// Group is a common-cause-failure group: a named collection of basic-event
// members sharing a failure-probability model.
type Group struct {
	Name    ident.Name
	Members []node.BasicHandle
	Prob    float64
	Model   Model
	Factors []float64
}

// New constructs an empty Group; members, probability, model, and factors
// are assigned by the caller (tree.AddCCFGroup binds members up front; the
// generator assigns model/factors after construction).
func New(name ident.Name) *Group {
	return &Group{Name: name}
}

// Validate checks the invariants a CCF group must satisfy: at least two
// members, a probability in [0,1], non-negative factors, and (for the
// phi model only) factors summing to 1.
func (g *Group) Validate() error {
	if len(g.Members) < 2 {
		return fmt.Errorf("%w: group %q has %d member(s)", ErrTooFewMembers, g.Name, len(g.Members))
	}
	if g.Prob < 0 || g.Prob > 1 {
		return fmt.Errorf("ccf: group %q probability %g out of [0,1]", g.Name, g.Prob)
	}
	sum := 0.0
	for _, f := range g.Factors {
		if f < 0 {
			return fmt.Errorf("%w: group %q factor %g", ErrNegativeFactor, g.Name, f)
		}
		sum += f
	}
	if g.Model == Phi && len(g.Factors) > 0 {
		if math.Abs(sum-1) > phiSumTolerance {
			return fmt.Errorf("%w: group %q factors sum to %g", ErrPhiFactorsMustSumToOne, g.Name, sum)
		}
	}
	return nil
}

// HasMember reports whether h is already a member of the group, used to
// guard against double-inclusion when the generator partitions basic
// events into groups.
func (g *Group) HasMember(h node.BasicHandle) bool {
	for _, m := range g.Members {
		if m == h {
			return true
		}
	}
	return false
}
