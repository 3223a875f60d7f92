// Package domainerrors provides coded errors shared across the auth core.
//
// Services classify failures by attaching a Code; callers branch on codes
// with HasCode instead of matching message strings. Provider-level wire
// failures live in internal/auth/provider; this package is for failures
// that carry meaning to the caller.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a failure category. The set mirrors the error taxonomy of
// the sign-in flow: exactly one code applies to any error this core raises.
type Code string

const (
	// CodeCancelled marks a user-aborted browser or credential flow. Never
	// wrapped by upstream layers and never logged at error level.
	CodeCancelled Code = "cancelled"
	// CodeValidation marks malformed caller input (phone/email format).
	CodeValidation Code = "validation"
	// CodeProtocol marks an unexpected identity-provider response shape,
	// usually a provider contract change.
	CodeProtocol Code = "protocol"
	// CodeConfiguration marks a missing provider-side app registration
	// (e.g. passkey domain association). Fatal, but surfaced distinctly so
	// callers can render setup guidance.
	CodeConfiguration Code = "configuration"
	// CodeTransport marks a failed backend call (non-2xx or network error).
	CodeTransport Code = "transport"
	// CodeUnauthorized marks a rejected or stale provider session.
	CodeUnauthorized Code = "unauthorized"
	// CodeConflict marks an operation refused because another auth
	// operation holds the in-flight guard.
	CodeConflict Code = "conflict"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is a coded error with optional metadata and cause.
type Error struct {
	Code    Code
	Message string
	Meta    map[string]any

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// WithMeta attaches a metadata entry and returns the same error for
// chaining. Metadata keys used by this core: "status_code", "error_code".
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 2)
	}
	e.Meta[key] = value
	return e
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap annotates err with a code and message, preserving err as the cause.
// Wrapping a nil error returns nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if domainErr.Code == code {
			return true
		}
		err = domainErr.Unwrap()
		if err == nil {
			return false
		}
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability in tests.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the code of the outermost coded error in the chain, or
// CodeInternal when the chain carries none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// Meta retrieves a metadata entry from the outermost coded error carrying
// the key. The second return is false when no error in the chain has it.
func Meta(err error, key string) (any, bool) {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if value, ok := domainErr.Meta[key]; ok {
			return value, true
		}
		err = domainErr.Unwrap()
		if err == nil {
			break
		}
	}
	return nil, false
}
