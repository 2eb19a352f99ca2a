// Package validate orchestrates the checks a freshly constructed fault
// tree must pass before it is considered frozen: population (reference
// resolution, root detection, cycle detection, all performed by
// tree.Populate) plus CCF-group factor plausibility, which is not part of
// population itself because CCF groups may be attached to a tree after its
// basic events but before the tree is considered complete.
package validate
