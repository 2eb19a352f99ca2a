// Package generator builds a random fault tree of specified complexity, for
// exercising analysis tools with inputs larger than anyone would write by
// hand.
//
// Complexity is controlled through a Factors value: the average number of
// gate arguments, the number of basic/house events and CCF groups, the gate
// type weight vector, and the fraction and average fan-out of "common"
// (shared) basic events and gates. Factors.Calculate derives the internal
// sampling parameters — the symmetric max-args bound, the basic/gate split
// ratio, and (when the caller constrains the total gate count directly) a
// recalibration of the common-node ratios to fit.
//
// Generate grows the tree breadth-first from a single top gate: a queue of
// not-yet-filled gates is drained one at a time, each slot filled by
// sampling a fresh or a shared gate/basic-event argument, preferring orphan
// and single-parent shared candidates to spread reuse before piling onto
// the same few nodes. A lazily computed ancestor set prevents the shared
// selection from introducing a cycle. House events and CCF groups are
// scattered on afterward.
//
// Complexity (time): approximately O(N) + O((N/Ratio)^2 * exp(-NumArgs/Ratio))
// + O(NumCCF * exp(CommonB)), where N is the number of basic events and
// Ratio is N / num_gate — the same asymptotic shape as the breadth-first
// random growth it performs.
package generator
