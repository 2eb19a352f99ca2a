package validate

import (
	"fmt"

	"github.com/riskgraph/faulttree/tree"
)

// Run populates ft (see tree.Populate) and then re-checks every CCF
// group's factor plausibility. Group-level checks already run once at
// tree.AddCCFGroup time; repeating them here also covers groups inserted
// through tree.ConstructCCFGroup, which does not validate, and groups a
// caller changed by mutating Factors/Members directly after insertion.
func Run(ft *tree.FaultTree, opts ...tree.PopulateOption) error {
	if err := ft.Populate(opts...); err != nil {
		return err
	}
	for _, g := range ft.CCFGroups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("validate: CCF group %q: %w", g.Name, err)
		}
	}
	return nil
}
