// Package apperr defines the error taxonomy shared by the API layers.
//
// Every error carries the HTTP status it maps to. Handlers return these
// errors unchanged and the fiber error handler renders them into the
// {ok:false,error:{message,details}} envelope.
package apperr

import (
	"errors"
	"net/http"
)

// Error is an API facing error with a status code and optional details.
type Error struct {
	Status  int
	Message string
	Details any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}

	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// New creates an error with the given status and message.
func New(status int, message string, details ...any) *Error {
	e := &Error{Status: status, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}

	return e
}

// Validation reports malformed user input (400).
func Validation(message string, details ...any) *Error {
	return New(http.StatusBadRequest, message, details...)
}

// NotFound reports an absent entity or key (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Unauthorized reports a missing or invalid admin session (401).
func Unauthorized() *Error {
	return New(http.StatusUnauthorized, "Unauthorized")
}

// Conflict reports a unique constraint violation (409).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Forbidden reports a request rejected by policy (403).
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// StatusOf returns the HTTP status of err, 500 for foreign errors.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}

	return http.StatusInternalServerError
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return StatusOf(err) == http.StatusBadRequest
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
