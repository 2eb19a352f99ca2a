// Package diagnostics carries non-fatal warnings out of construction and
// generation flows — orphan events, promoted-undefined references, CCF
// partitions that left members uncovered — without forcing every caller to
// thread a logger through by hand.
//
// Sink is the seam: a zerolog-backed console sink is provided for command
// surfaces, and a no-op sink is the default for library callers that don't
// care.
package diagnostics
