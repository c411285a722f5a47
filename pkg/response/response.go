// Package response writes the canonical JSON envelope.
//
// Every endpoint answers with the same shape:
//
//	{"status": 200, "data": {...}}
//	{"status": 409, "code": "OUT_OF_STOCK", "message": "..."}
//
// Tokens and payloads always live under "data"; there is exactly one
// envelope shape across the API.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/glowmart/glowmart/pkg/apperr"
)

type envelope struct {
	Status  int         `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response with a stable code.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, envelope{Status: status, Code: code, Message: message})
}

// FromError maps an application error to the envelope. Errors without a
// typed code become a generic 500 so internals never leak to the client.
func FromError(w http.ResponseWriter, err error) {
	if ae := apperr.As(err); ae != nil {
		write(w, ae.Status, envelope{
			Status:  ae.Status,
			Code:    ae.Code,
			Message: ae.Message,
			Errors:  fieldsOrNil(ae.Fields),
		})
		return
	}
	Error(w, http.StatusInternalServerError, apperr.CodeServerError, "something went wrong")
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Code:    apperr.CodeValidation,
		Message: "validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, apperr.CodeUnauthenticated, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, apperr.CodeForbidden, "forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, apperr.CodeNotFound, message)
}

func fieldsOrNil(fields map[string]string) interface{} {
	if len(fields) == 0 {
		return nil
	}
	return fields
}
