// Package ident validates and normalizes the names used throughout a fault
// tree: gates, basic events, house events, and CCF groups all share the same
// identifier grammar.
//
// A Name is an XML NCName-like token: it starts with a letter, continues with
// letters/digits/underscores, and may contain '-'-separated segments. Double
// dashes, a leading digit, and a trailing dash are all rejected.
//
// Comparisons across the fault tree are case-insensitive (two names that
// differ only in case collide), but output always preserves the case the
// name was declared with. Key, the case-folded form, is what scoped
// containers index by; String is what gets printed.
package ident
