// internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/lavka-be/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
// Unrecognized errors become an opaque 500; the detail stays in the logs.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(w, logger, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		respondError(w, logger, http.StatusNotFound, err.Error())
	case domain.IsInsufficientStock(err):
		respondError(w, logger, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTransactionConflict):
		respondError(w, logger, http.StatusConflict, "the operation conflicted with a concurrent change, please retry")
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(w, logger, http.StatusUnauthorized, "authentication required")
	default:
		respondError(w, logger, http.StatusInternalServerError, "internal server error")
	}
}
