// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Fixed client-facing error messages.
const (
	MsgInvalidJSON       = "Invalid JSON"
	MsgNotFound          = "Not found"
	MsgRateLimitExceeded = "Rate limit exceeded"
	MsgBodyTooLarge      = "Request body too large"
	MsgInternal          = "Internal server error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes {"error": message} with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response with the created resource.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteBadJSON writes a 400 Bad Request with the invalid-JSON message.
func WriteBadJSON(w http.ResponseWriter) {
	WriteError(w, http.StatusBadRequest, MsgInvalidJSON)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, MsgNotFound)
}

// WriteTooManyRequests writes a 429 Too Many Requests response.
func WriteTooManyRequests(w http.ResponseWriter) {
	WriteError(w, http.StatusTooManyRequests, MsgRateLimitExceeded)
}

// WriteInternalError writes a 500 with a generic message. Details belong in
// the server log, not the response.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternal)
}
