// Package aralia writes a tree.FaultTree out in the compact infix textual
// form: the fault-tree name, then one line per gate in topological
// (dependencies-first) order using the same and/or/xor/atleast/not/null
// syntax the shorthand parser reads, then one p(name) = prob line per
// basic event with a literal probability and one s(name) = state line per
// house event. A basic event whose probability is an expression gets no
// p() line.
//
// The format has no way to express a complemented or undefined argument;
// Write returns an error rather than silently dropping either. It also has
// no CCF-group syntax, so a fault tree with CCF groups serializes without
// them — there is nowhere in the grammar to put them.
package aralia
