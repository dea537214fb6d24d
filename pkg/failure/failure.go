// Package failure defines the error taxonomy shared by spies,
// stubs and the assertion engine.
//
// Every error produced by the library carries exactly one Kind.
// Assertion failures additionally carry the configurable
// exception name so callers can tell them apart from usage
// errors.
package failure

import (
	"errors"
	"fmt"
)

// Kind is a stable failure category.
type Kind string

const (
	// InvalidArgument reports a misuse such as wrapping a
	// non-function or asserting on something that is not a
	// spy.
	InvalidArgument Kind = "InvalidArgument"

	// TypeError reports a value of the wrong shape, such as a
	// nil Expose target or a stub callback argument that is
	// not a function.
	TypeError Kind = "TypeError"

	// AssertionFailure reports a failed assertion raised by
	// the default fail handler.
	AssertionFailure Kind = "AssertionFailure"
)

// Error is the structured error type for all library failures.
type Error struct {
	Kind    Kind
	Name    string
	Message string
	Cause   error
}

// Error implements the error interface. Assertion failures
// render as "<Name>: <Message>" so the configured exception
// name is visible in test output.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Assertion creates an assertion failure carrying the given
// exception name.
func Assertion(name, message string) *Error {
	return &Error{Kind: AssertionFailure, Name: name, Message: message}
}

// KindOf returns the Kind of err, or "" when err is not (and
// does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FromPanic converts a recovered panic value into an *Error when
// it is one. The second result is false for any other value.
func FromPanic(v any) (*Error, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
