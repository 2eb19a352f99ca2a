package generator

import (
	"errors"
	"fmt"
)

// FactorError is the sentinel wrapped by every complexity-factor
// validation failure: a value out of its allowed range, a combination that
// leaves no feasible gate count, or a weight vector that can't be
// normalized.
var FactorError = errors.New("generator: invalid factor configuration")

type factorError struct{ msg string }

func (e *factorError) Error() string { return e.msg }
func (e *factorError) Unwrap() error { return FactorError }

func factorErrf(format string, args ...interface{}) error {
	return &factorError{msg: fmt.Sprintf("generator: "+format, args...)}
}
