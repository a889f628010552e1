package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body. Every endpoint, success or failure,
// writes this shape.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(envelope)
}

// WriteSuccess writes a success envelope with optional data
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	write(w, statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError writes a failure envelope with a human-readable message
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, Envelope{
		Success: false,
		Message: message,
	})
}

// WriteFieldErrors writes a failure envelope carrying per-field validation errors
func WriteFieldErrors(w http.ResponseWriter, statusCode int, message string, errors map[string][]string) {
	write(w, statusCode, Envelope{
		Success: false,
		Message: message,
		Errors:  errors,
	})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
