// Package clierr defines structured error types shared by the CLI and the server.
// Errors carry a machine-readable code, a human-readable message,
// and optional details.
package clierr

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Error code constants; uppercase, underscore-separated, stable.
const (
	TodoNotFound    = "TODO_NOT_FOUND"
	InvalidInput    = "INVALID_INPUT"
	InvalidName     = "INVALID_NAME"
	InvalidPriority = "INVALID_PRIORITY"
	InvalidDate     = "INVALID_DATE"
	DeadlineInPast  = "DEADLINE_IN_PAST"
	InvalidTodoID   = "INVALID_TODO_ID"
	Unauthorized    = "UNAUTHORIZED"
	RequestFailed   = "REQUEST_FAILED"
	InternalError   = "INTERNAL_ERROR"
)

// Error represents a structured error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// HTTPStatus maps the error code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case TodoNotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case InternalError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// Code returns the code of the first *Error in err's chain, or InternalError.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// SilentError signals an exit code without additional output.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
