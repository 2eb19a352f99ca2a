// Package shorthand parses the line-oriented textual fault-tree format
// into a populated tree.FaultTree (Parse runs Populate before returning),
// reporting the first error with its originating line number.
//
// Each statement occupies exactly one line; blank lines are ignored and
// '#' is not a comment marker — a line starting with it fails to parse
// like any other malformed statement. The first non-blank line names the
// fault tree; every statement after that is a gate, basic-event, or
// house-event definition. Operator precedence across different infix
// operators on one line is never inferred: mixing, say, '|' and '&'
// without parentheses to disambiguate is a parse error.
package shorthand
