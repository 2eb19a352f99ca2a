// Package tree implements FaultTree, the sole custodian of every gate,
// basic event, house event, and CCF group in a fault tree.
//
// FaultTree provides scoped insertion with case-insensitive duplicate
// detection (AddBasicEvent/AddHouseEvent/AddGate/AddCCFGroup) and Populate,
// which performs the two-phase, late-bound construction a grammar with
// forward references requires: gate arguments are stored as strings at Add
// time and resolved to typed handles only once every statement has been
// seen.
//
// The locking/catalog discipline here generalizes a mutex-guarded,
// map-backed single vertex/edge catalog to four typed scopes (gates, basic
// events, house events, CCF groups) sharing one case-folded name index.
package tree
