// Package ccf models common-cause-failure groups: a named set of basic
// events (size >= 2) that may fail together, with a model tag (MGL, alpha,
// beta, phi) and a list of numeric factors interpreted per that model.
//
// A strict per-model factor-count validator is deliberately not enforced,
// since legitimate groups in the wild vary in how many factors they carry
// per model; the one constraint enforced unconditionally is that phi-model
// factors must sum to 1, since that is a closure property of the model
// itself rather than a convention.
package ccf
