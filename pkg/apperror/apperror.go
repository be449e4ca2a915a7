// Package apperror defines errors that carry a stable code and HTTP status.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a domain error with a machine-readable code
type Error struct {
	Status  int
	Code    string
	Message string
}

// New creates a new Error
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so copies made with WithMessage still match their sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying a more specific message
func (e *Error) WithMessage(message string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: message}
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Errors shared across features
var (
	ErrValidation   = New(http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed")
	ErrBadRequest   = New(http.StatusBadRequest, "BAD_REQUEST", "invalid request")
	ErrAuthRequired = New(http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
	ErrInvalidToken = New(http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	ErrRateLimited  = New(http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
)

// Validation builds a VALIDATION_ERROR with the given message
func Validation(message string) *Error {
	return ErrValidation.WithMessage(message)
}

// BadRequest builds a BAD_REQUEST with the given message
func BadRequest(message string) *Error {
	return ErrBadRequest.WithMessage(message)
}
