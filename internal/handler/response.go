// Package handler implements the HTTP layer: request parsing, response
// encoding, and the mapping from classified application errors to status
// codes. Handlers hold no business rules — those live in internal/service.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/summaize/summaize/internal/apperror"
)

// errorResponse is the error shape every endpoint returns.
//
//	{"error": "missing_login", "details": "login is required"}
//
// The error field carries the machine-readable code the SPA switches on;
// details is the human-readable explanation and may be absent.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON sends data with the given status. Headers must be set before the
// first body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a service error into the HTTP response.
//
// Classified errors (anything wrapping an apperror sentinel) map by sentinel:
//
//	ErrValidation  → 400    ErrConflict → 400 (duplicate registration is a
//	ErrUnauthorized → 401                  client mistake, not a 409, per the
//	ErrForbidden   → 403                  API contract the SPA was built on)
//	ErrNotFound    → 404
//
// Anything else is an unexpected failure: logged at error level and returned
// as a bare 500. The underlying message goes into details only when
// exposeDetails is set (non-production) — raw errors can leak SQL and paths.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, exposeDetails bool) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}

		writeJSON(w, status, errorResponse{Error: appErr.Code, Details: appErr.Message})
		return
	}

	logger.Error("unexpected error", slog.String("error", err.Error()))

	resp := errorResponse{Error: "internal_error"}
	if exposeDetails {
		resp.Details = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

// decodeJSON parses the request body into dst, turning malformed JSON into a
// 400-classified error instead of a 500.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "request body is not valid JSON")
	}
	return nil
}
