package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeInvalidArgument Code = "invalid_argument"
	CodeValidation      Code = "validation_failed"
	CodeNotFound        Code = "not_found"
	CodeUpstream        Code = "upstream_error"
	CodeInternal        Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and client layers.
// Status carries the reported status of a failing remote call so upstream
// failures can be passed through verbatim; it is zero for local failures.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Upstream creates a domain error mirroring a remote call's reported status.
func Upstream(status int, msg string) error {
	return &Error{Code: CodeUpstream, Message: msg, Status: status}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code and
// status are preserved so stage context can be added without losing the
// classification of the underlying failure.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Status: existing.Status, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// StatusOf resolves the HTTP status an error should surface with.
// An explicit upstream status wins; otherwise the code decides; anything
// unrecognized is a 500.
func StatusOf(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 500
	}
	if e.Status != 0 {
		return e.Status
	}
	switch e.Code {
	case CodeInvalidArgument, CodeValidation:
		return 400
	case CodeNotFound:
		return 404
	default:
		return 500
	}
}
