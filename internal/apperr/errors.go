// Package apperr defines the error taxonomy returned by the API. Handlers and
// services return *Error values; the HTTP layer is the only place that turns
// them into responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine readable error code sent to clients
type Code string

const (
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInternal         Code = "INTERNAL_SERVER_ERROR"
)

// Error is a domain error carrying its HTTP status
type Error struct {
	Status  int
	Code    Code
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes one violated field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New(status int, code Code, message string, details any) *Error {
	return &Error{Status: status, Code: code, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return New(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Not found"
	}
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

func Conflict(message string, details any) *Error {
	if message == "" {
		message = "Conflict"
	}
	return New(http.StatusConflict, CodeConflict, message, details)
}

func BadRequest(message string, details any) *Error {
	if message == "" {
		message = "Bad request"
	}
	return New(http.StatusBadRequest, CodeBadRequest, message, details)
}

// Validation builds a VALIDATION_FAILED error listing every field
func Validation(fields []FieldError) *Error {
	msg := "Validation failed"
	for i, f := range fields {
		if i == 0 {
			msg += ": "
		} else {
			msg += ", "
		}
		msg += f.Field + ": " + f.Message
	}
	return New(http.StatusBadRequest, CodeValidationFailed, msg, fields)
}

func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
