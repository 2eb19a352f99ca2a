package shorthand

import (
	"errors"
	"fmt"
)

// ErrParsing indicates a token that cannot be interpreted at all (a
// malformed number, a name that doesn't match the NCName grammar, a
// dangling operator).
var ErrParsing = errors.New("shorthand: parsing error")

// ErrFormat indicates a structural issue: a missing fault-tree name, a
// second name statement, mismatched parentheses, an empty formula, or a
// malformed p()/s()/@() statement. A line that matches no statement shape
// at all is a ParsingError.
var ErrFormat = errors.New("shorthand: format error")

// ParsingError carries the line number a token-level parse failure
// occurred on.
type ParsingError struct {
	Line int
	Msg  string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("shorthand:%d: %s", e.Line, e.Msg)
}

func (e *ParsingError) Unwrap() error { return ErrParsing }

func parsingErr(line int, format string, args ...interface{}) error {
	return &ParsingError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// FormatError carries the line number a structural failure occurred on.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("shorthand:%d: %s", e.Line, e.Msg)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

func formatErr(line int, format string, args ...interface{}) error {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// FaultTreeError wraps a semantic error (redefinition, repeated argument,
// bad arity, cycle, missing root...) raised by the tree/dfs packages with
// the line number of the statement that triggered it. Line is 0 when the
// error surfaces at end-of-input (root/cycle detection, run during
// Populate after the last statement is read).
type FaultTreeError struct {
	Line int
	Err  error
}

func (e *FaultTreeError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("shorthand: %s", e.Err)
	}
	return fmt.Sprintf("shorthand:%d: %s", e.Line, e.Err)
}

func (e *FaultTreeError) Unwrap() error { return e.Err }
