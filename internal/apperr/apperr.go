// Package apperr defines the error taxonomy crossing the service boundary.
// Services return these as a discriminated kind + message so the transport
// layer can map them without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind discriminates service-level failures.
type Kind string

const (
	// KindValidation covers malformed input shape or constraint violations.
	KindValidation Kind = "validation"
	// KindAuthentication covers requests with no valid session.
	KindAuthentication Kind = "authentication"
	// KindForbidden covers authenticated but not permitted: role mismatch,
	// ownership mismatch, disallowed transition, inconsistent submission
	// details.
	KindForbidden Kind = "forbidden"
	// KindNotFound covers absent entities, and deliberately also entities
	// not visible within the caller's tenant so existence does not leak
	// across organizations.
	KindNotFound Kind = "not_found"
)

// Error is a service failure with a discriminated kind.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is allows matching on kind via errors.Is with a bare kinded error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Authentication returns an authentication error.
func Authentication(format string, args ...any) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// Forbidden returns a forbidden error.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an error while keeping its kind and message.
func Wrap(err *Error, cause error) *Error {
	err.cause = cause
	return err
}

// KindOf returns the kind of err if it is an *Error, or "" otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
