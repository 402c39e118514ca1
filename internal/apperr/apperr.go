// Package apperr defines the closed error taxonomy for SocietyHub
// workflows. Services return *Error values carrying a Kind; the HTTP
// boundary decides how kinds surface to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure.
type Kind int

const (
	// Unauthorized: missing or invalid bearer credential.
	Unauthorized Kind = iota
	// Forbidden: authenticated but insufficiently privileged.
	Forbidden
	// NotFound: target record absent.
	NotFound
	// InvalidState: a lifecycle precondition was violated.
	InvalidState
	// ValidationError: a required input field is missing or malformed.
	ValidationError
	// UpstreamFailure: a datastore or email-provider call failed.
	UpstreamFailure
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case InvalidState:
		return "invalid_state"
	case ValidationError:
		return "validation_error"
	case UpstreamFailure:
		return "upstream_failure"
	default:
		return "unknown"
	}
}

// Error is a workflow error with a classified kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error,
// and UpstreamFailure otherwise. Errors reaching the HTTP boundary
// without classification are treated as upstream failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UpstreamFailure
}
