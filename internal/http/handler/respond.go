package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeValidationError renders a 400 with per-field messages. Other errors
// use plain http.Error like the rest of the handlers.
func writeValidationError(w http.ResponseWriter, ve *reading.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Invalid reading values",
		"details": ve.Messages,
	})
}

// serviceError maps domain errors onto HTTP responses.
func serviceError(w http.ResponseWriter, err error) {
	var ve *reading.ValidationError
	switch {
	case errors.As(err, &ve):
		writeValidationError(w, ve)
	case errors.Is(err, reading.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, reading.ErrBulkTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
