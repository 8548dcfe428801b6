// Package errors provides structured error handling for the NebulaUI core.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidHandle indicates a node handle that does not belong to the
	// arena, or has been removed since it was issued.
	KindInvalidHandle
	// KindInvalidChild indicates a structural mutation against a node that is
	// not actually a child of the named parent.
	KindInvalidChild
	// KindSolver indicates the flexbox solver rejected a style or constraint
	// combination.
	KindSolver
	// KindMissingLayout indicates a layout query before any computation.
	KindMissingLayout
	// KindStylesheet indicates a style definition that could not be parsed
	// or resolved.
	KindStylesheet
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidHandle:
		return "invalid_handle"
	case KindInvalidChild:
		return "invalid_child"
	case KindSolver:
		return "solver"
	case KindMissingLayout:
		return "missing_layout"
	case KindStylesheet:
		return "stylesheet"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the NebulaUI core.
//
// Every fallible arena or solver operation returns one of these; no core
// operation terminates the process for ordinary misuse.
type Error struct {
	// Op is the operation that failed (e.g., "layout.Engine.SetStyle").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error, if any.
	Err error
	// Detail carries operation-specific context (e.g., the offending handle).
	Detail string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s [%s] %s: %v", e.Op, e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s [%s] %s", e.Op, e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error by kind, so callers can use
// errors.Is with a sentinel carrying the kind of interest.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// New constructs a structured error with the current timestamp.
func New(op string, kind ErrorKind, detail string) *Error {
	return &Error{Op: op, Kind: kind, Detail: detail, Timestamp: time.Now()}
}

// Wrap constructs a structured error wrapping an underlying cause.
func Wrap(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// KindOf extracts the ErrorKind from an error, or KindUnknown if the error is
// not a structured core error.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}
