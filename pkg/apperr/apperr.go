// Package apperr defines the application error taxonomy.
//
// Every expected, recoverable-by-caller failure is an *Error carrying a
// stable machine-readable code and the HTTP status it maps to. Services
// return these; controllers hand them to response.FromError. Anything that
// is not an *Error surfaces as a generic SERVER_ERROR without leaking
// internals to the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes. Clients match on these, never on messages.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeOutOfStock      = "OUT_OF_STOCK"
	CodeEmptyCart       = "EMPTY_CART"
	CodeValidation      = "VALIDATION_ERROR"
	CodeServerError     = "SERVER_ERROR"
)

// Error is a typed application error.
type Error struct {
	Code    string
	Message string
	Status  int
	// Fields holds field-level validation messages, when applicable.
	Fields map[string]string
	// cause, if set, is the wrapped underlying error.
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Wrap attaches an underlying cause, preserving code/status/message.
func (e *Error) Wrap(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// As extracts an *Error from err's chain. Returns nil when err carries none.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given stable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message, Status: http.StatusUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func AlreadyExists(message string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: message, Status: http.StatusConflict}
}

// OutOfStock names the offending product so the client can tell which line
// failed, and reports how many units are actually available.
func OutOfStock(slug string, available int) *Error {
	return &Error{
		Code:    CodeOutOfStock,
		Message: fmt.Sprintf("insufficient stock for %q: %d available", slug, available),
		Status:  http.StatusConflict,
	}
}

func EmptyCart() *Error {
	return &Error{Code: CodeEmptyCart, Message: "cart is empty", Status: http.StatusBadRequest}
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Status: http.StatusUnprocessableEntity}
}

// ValidationFields builds a validation error from a field→message map.
func ValidationFields(fields map[string]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "validation failed",
		Status:  http.StatusUnprocessableEntity,
		Fields:  fields,
	}
}

func Internal(message string, cause error) *Error {
	return &Error{
		Code:    CodeServerError,
		Message: message,
		Status:  http.StatusInternalServerError,
		cause:   cause,
	}
}
