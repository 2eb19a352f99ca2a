package node

import "github.com/riskgraph/faulttree/ident"

// GateHandle indexes a Gate within its owning FaultTree's gate slice.
// NoGate (-1, not the zero value) is the sentinel for "no such gate".
type GateHandle int

// NoGate is the sentinel GateHandle meaning "absent" / "unresolved".
const NoGate GateHandle = -1

// BasicHandle indexes a BasicEvent within its owning FaultTree.
type BasicHandle int

// NoBasic is the sentinel BasicHandle meaning "absent".
const NoBasic BasicHandle = -1

// HouseHandle indexes a HouseEvent within its owning FaultTree.
type HouseHandle int

// NoHouse is the sentinel HouseHandle meaning "absent".
const NoHouse HouseHandle = -1

// UndefinedHandle indexes an UndefinedEvent within its owning FaultTree.
type UndefinedHandle int

// NoUndefined is the sentinel UndefinedHandle meaning "absent".
const NoUndefined UndefinedHandle = -1

// Base is embedded by every named fault-tree entity that can be a gate
// argument: BasicEvent, HouseEvent, UndefinedEvent, and Gate itself. It
// carries the validated Name and the set of gates that reference this
// entity as an argument.
//
// Parents is keyed by GateHandle so membership tests and de-duplication are
// O(1); AddParent panics on a duplicate add, since that case indicates a
// bug in the caller (the same gate resolving the same argument twice), not
// a recoverable runtime condition.
type Base struct {
	Name    ident.Name
	Parents map[GateHandle]struct{}
}

// NewBase constructs a Base with an initialized, empty Parents set.
func NewBase(name ident.Name) Base {
	return Base{Name: name, Parents: make(map[GateHandle]struct{})}
}

// IsOrphan reports whether this entity currently has no parents.
func (b *Base) IsOrphan() bool { return len(b.Parents) == 0 }

// IsCommon reports whether this entity is referenced by more than one gate.
func (b *Base) IsCommon() bool { return len(b.Parents) > 1 }

// NumParents returns the number of distinct parent gates.
func (b *Base) NumParents() int { return len(b.Parents) }

// AddParent registers gate as a parent of this entity. Panics if gate is
// already a parent: callers (tree.Populate, the generator) are expected to
// resolve each gate/argument pair exactly once.
func (b *Base) AddParent(gate GateHandle) {
	if _, exists := b.Parents[gate]; exists {
		panic("node: gate is already a parent")
	}
	b.Parents[gate] = struct{}{}
}
