// Package mef streams a tree.FaultTree out as Open-PSA Model Exchange
// Format XML: a <define-fault-tree> section with gates in topological
// (dependencies-first) order followed by CCF groups, then a <model-data>
// section declaring basic and house events. Output is never
// human-indented, matching the canonical form external analysis engines
// consume.
//
// Parse reads back the canonical XML that Write emits with nest=0 and
// rebuilds an equivalent, populated tree; it is not a general MEF reader,
// and output written with nest>0 cannot be read back.
package mef
