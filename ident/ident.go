package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyName indicates an empty string was given where a Name is required.
var ErrEmptyName = errors.New("ident: name is empty")

// ErrInvalidName indicates a non-empty string that does not match the
// NCName-like grammar (letter, then letters/digits/underscores, optional
// '-'-separated segments; no leading digit, no double dash, no trailing
// dash).
var ErrInvalidName = errors.New("ident: name does not match NCName-like grammar")

// namePattern is deliberately anchored and mirrors the shorthand grammar's
// name_sig: a leading letter, then word characters, then zero or more
// "-"-prefixed segments that each require at least one following word
// character (which rules out "--" and a trailing "-" for free).
var namePattern = regexp.MustCompile(`^[a-zA-Z]\w*(-\w+)*$`)

// Name is a validated, case-preserving identifier. The zero value is not a
// valid Name; construct one with Parse.
type Name struct {
	raw string
}

// Parse validates s against the NCName-like grammar and returns a Name that
// preserves s's original case for output.
func Parse(s string) (Name, error) {
	if s == "" {
		return Name{}, ErrEmptyName
	}
	if !namePattern.MatchString(s) {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return Name{raw: s}, nil
}

// MustParse is Parse but panics on error. Intended for literals in tests and
// generator code where the name is constructed programmatically and known
// valid by construction.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the name exactly as declared (case-preserving).
func (n Name) String() string { return n.raw }

// IsZero reports whether n is the unconstructed zero value.
func (n Name) IsZero() bool { return n.raw == "" }

// Key returns the case-folded lookup key used by scoped containers. Two
// Names collide (are "the same name") iff their Key values are equal.
func (n Name) Key() string { return strings.ToLower(n.raw) }

// Key folds an arbitrary string the same way Name.Key does, for callers that
// need to compare against a Name before it has been validated/parsed (e.g.
// the shorthand parser resolving a forward reference by raw string).
func Key(s string) string { return strings.ToLower(s) }
