// Package node provides the scaffolding every fault-tree entity shares: a
// validated Name plus a back-reference set of owning gates ("parents").
//
// Ownership is handle-based rather than pointer-based: a FaultTree owns
// every Gate, BasicEvent, HouseEvent, UndefinedEvent, and CcfGroup in
// contiguous slices, and cross-references between them — a gate's
// arguments, an event's parents — are integer Handle values indexing
// those slices. This sidesteps the reference cycle that a naive
// gate<->parent pointer graph would create (gates point at their arguments,
// arguments point back at their parents) without requiring a tracing
// garbage collector to resolve it; Go's GC would handle the cycle fine, but
// handles also make FaultTree trivially cloneable/comparable and keep
// membership tests O(1) via a plain map.
package node
