package executor

import "errors"

// ErrNotImplemented is returned when a plan is valid but uses a feature the
// executor has no support for yet. It is reported during pipeline
// construction, before any data is read.
var ErrNotImplemented = errors.New("not implemented")

var errDivisionByZero = errors.New("division by zero")

// Error annotates a read failure with the operator it occurred in. EOF is
// never wrapped.
type Error struct {
	Op  string // Name of the failing operator.
	Err error  // Underlying cause.
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
