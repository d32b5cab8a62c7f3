// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	categoryValidation = "validation"
	categoryNotFound   = "not_found"
	categoryInternal   = "internal"
)

type errorBody struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError sends a structured error payload with a machine-readable
// category and a human-readable message.
func writeError(w http.ResponseWriter, status int, category, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Category: category, Message: message}})
}
