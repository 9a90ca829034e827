package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured error that can cross the HTTP boundary.
// Code is a stable machine-readable identifier; Message is for humans
// and may be localized. Neither is mutated after creation.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"human_message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of the error carrying the underlying cause.
// The cause is for logs only; it never reaches the response body.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// New creates a structured error with an explicit HTTP status.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Request creates a structured request error, surfaced as 422.
func Request(code, message string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: code, Message: message}
}

// InvalidArg reports a missing or malformed request argument.
func InvalidArg(name string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    "invalid_argument",
		Message: fmt.Sprintf("invalid argument: %s", name),
	}
}

// AsError extracts a structured *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
