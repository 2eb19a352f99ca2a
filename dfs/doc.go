// Package dfs provides three-colour depth-first traversal over a fault
// tree's gate→gate argument graph: cycle detection with full cycle-path
// reconstruction, and a postorder topological sort.
//
// Both algorithms operate on a plain []*gate.Gate and a set of root
// handles, not on any fault-tree container type, so they can run equally
// over a fully populated tree or over a subgraph under construction. Both
// use an explicit stack rather than host recursion: generated trees
// routinely exceed any safe recursion depth.
package dfs
