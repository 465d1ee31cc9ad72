// Package respond centralizes response encoding and the failure-kind to
// status-code mapping shared by all handlers.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"moneyger/internal/apperror"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the status that matches the failure kind. Unknown kinds are
// infrastructure failures and stay opaque to the client.
func Error(w http.ResponseWriter, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case apperror.KindValidation:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperror.KindBusinessRule:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
