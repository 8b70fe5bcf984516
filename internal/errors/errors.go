// Package errors provides coded domain errors for the annotation engine and its API.
//
// The three failure classes an annotation session can produce map onto codes:
//
//	// Rejected locally, surfaced as a transient notice, no state change.
//	return errors.UserInput("Comment text is empty")
//
//	// Load/render failure from the document backend.
//	return errors.Wrap(err, errors.CodeDocument, "failed to load document")
//
//	// A contract was broken somewhere. Log it, never show it.
//	return errors.Invariantf("page %d outside [1, %d]", page, total)
//
// Handlers check with errors.Is against the sentinels, or read the Code directly:
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) && domainErr.Code == errors.CodeUserInput {
//	    notify(domainErr.Message)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION"
	CodeUserInput  Code = "USER_INPUT"
	CodeDocument   Code = "DOCUMENT"
	CodeConflict   Code = "CONFLICT"
	CodeInvariant  Code = "INVARIANT"
	CodeInternal   Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeUserInput:
		return http.StatusBadRequest
	case CodeDocument:
		return http.StatusUnprocessableEntity
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// UserFacing reports whether errors with this code carry a message meant for the user.
// Invariant and internal failures are logged instead.
func (c Code) UserFacing() bool {
	switch c {
	case CodeInvariant, CodeInternal:
		return false
	default:
		return true
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUserInput  = &Error{Code: CodeUserInput, Message: "invalid input"}
	ErrDocument   = &Error{Code: CodeDocument, Message: "document error"}
	ErrConflict   = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInvariant  = &Error{Code: CodeInvariant, Message: "invariant violation"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// UserInput creates an error for input the user can correct.
func UserInput(msg string) *Error {
	return &Error{Code: CodeUserInput, Message: msg}
}

// UserInputf creates a user input error with formatted message.
func UserInputf(format string, args ...any) *Error {
	return &Error{Code: CodeUserInput, Message: fmt.Sprintf(format, args...)}
}

// Document creates a document load/render error.
func Document(msg string) *Error {
	return &Error{Code: CodeDocument, Message: msg}
}

// Documentf creates a document error with formatted message.
func Documentf(format string, args ...any) *Error {
	return &Error{Code: CodeDocument, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Invariant creates an invariant violation error.
func Invariant(msg string) *Error {
	return &Error{Code: CodeInvariant, Message: msg}
}

// Invariantf creates an invariant violation error with formatted message.
func Invariantf(format string, args ...any) *Error {
	return &Error{Code: CodeInvariant, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
