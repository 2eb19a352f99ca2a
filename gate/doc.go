// Package gate defines the Boolean-combination types of the fault-tree
// model: Operator, ArgRef (a tagged reference to an argument — basic event,
// house event, gate, or undefined event — with an optional complement),
// Formula (an operator plus its argument list, usable standalone for nested
// anonymous sub-formulas or as a Gate's top-level body), and Gate itself.
//
// ArgRef replaces a per-kind argument-list design (separate basic/house/
// gate/undefined slices per gate) with a single ordered []ArgRef and a Kind
// tag — callers that want a same-type projection (e.g. a writer that wants
// basic-events-then-house-events-then-undefined-then-gates) filter
// ArgRef.Kind on demand rather than the model maintaining four parallel
// slices.
package gate
