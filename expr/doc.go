// Package expr models the small numeric-expression language a basic event's
// probability may reference instead of carrying a bare float literal:
// named Parameters, float Literals, and arithmetic combinations of the two.
//
// This package does not evaluate expressions against a quantification
// engine — computing an actual top-event probability is out of scope here.
// It exists so the fault-tree model can represent "this basic event's
// probability is parameter P" distinctly from "this basic event's
// probability is the literal 0.1", and so ValidateLiteral can check the
// literal case's range without needing a full evaluator.
package expr
