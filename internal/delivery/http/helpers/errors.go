package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"notescatalog/internal/domain"
)

// WriteServiceError maps a service error to its HTTP status and error code.
// Unclassified errors are logged and reported as 500 without leaking their text.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "internal server error")
		return
	}
	msg := err.Error()
	if de, ok := domain.AsError(err); ok {
		msg = de.Error()
	}
	WriteJSONError(w, status, code, msg)
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrResourceInUse):
		return http.StatusConflict, ErrCodeResourceInUse
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}
