package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// AppError is a client-facing failure: an HTTP status plus the payload reported as "details".
type AppError struct {
	Status  int
	Details any
	// Raw errors are written as Details alone, without the envelope.
	Raw bool
}

func (e *AppError) Error() string {
	switch d := e.Details.(type) {
	case map[string]string:
		return fmt.Sprintf("%d: %s", e.Status, d["detail"])
	default:
		return fmt.Sprintf("%d: %v", e.Status, d)
	}
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func NewAppError(status int, msg string) *AppError {
	return &AppError{Status: status, Details: detail(msg)}
}

func NotFound() *AppError {
	return NewAppError(http.StatusNotFound, "Not found.")
}

func NotAuthenticated() *AppError {
	return NewAppError(http.StatusUnauthorized, "Authentication credentials were not provided.")
}

func AuthFailed(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Forbidden() *AppError {
	return NewAppError(http.StatusForbidden, "You do not have permission to perform this action.")
}

func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

// Validation wraps field errors as a 400.
func Validation(fields FieldErrors) *AppError {
	return &AppError{Status: http.StatusBadRequest, Details: fields}
}

// FieldError is a shortcut for a single-field validation failure.
func FieldError(field, message string) *AppError {
	return Validation(FieldErrors{field: {message}})
}

// Unwrapped returns a copy of e that is written without the envelope.
func (e *AppError) Unwrapped() *AppError {
	raw := *e
	raw.Raw = true
	return &raw
}

// RawError is a failure whose body is exactly payload.
func RawError(status int, payload any) *AppError {
	return &AppError{Status: status, Details: payload, Raw: true}
}

// AsAppError unwraps err into an *AppError if it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
