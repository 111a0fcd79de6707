// Package apperror defines the application's error taxonomy.
//
// Every failure a handler can respond with is classified by one of the
// sentinel errors below. Services return *AppError values wrapping a
// sentinel; the HTTP layer maps the sentinel to a status code with
// errors.Is and extracts the machine-readable code for the JSON body.
// Nothing outside the handler package ever touches HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// AppError is a classified application error.
//
// Code is the machine-readable error identifier exposed in the JSON `error`
// field (e.g. "user_exists", "missing_login") — the SPA switches on these.
// Message is the human-readable detail, exposed as `details`.
type AppError struct {
	Err     error  // sentinel classifying the error
	Code    string // machine-readable identifier for the API
	Message string // human-readable detail
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing (or not-owned — the API never distinguishes)
// resource.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// NotFoundCode is NotFound with an explicit API code, for endpoints whose
// contract names a specific error string.
func NotFoundCode(code, message string) *AppError {
	return &AppError{Err: ErrNotFound, Code: code, Message: message}
}

// MissingField reports an absent required request field.
// The code follows the "missing_<field>" convention the frontend relies on.
func MissingField(field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "missing_" + field,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// ValidationFailed reports malformed input on the given field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "validation_error",
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// Conflict reports a uniqueness violation, e.g. a duplicate username.
func Conflict(code, message string) *AppError {
	return &AppError{Err: ErrConflict, Code: code, Message: message}
}

// Unauthorized reports missing or bad credentials (HTTP 401).
func Unauthorized(code, message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Code: code, Message: message}
}

// Forbidden reports a valid identity that lacks permission (HTTP 403).
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Code: "forbidden", Message: message}
}
