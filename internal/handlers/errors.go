package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/notehub/internal/errs"
)

// Client-facing messages. The wording is part of the published API.
const (
	MsgMissingFields      = "Missing fields in the request"
	MsgInvalidCredentials = "Invalid username or password"
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Forbidden"
	MsgNoteNotFound       = "Note not found"
	MsgNoteIDRequired     = "Note ID is required"
	MsgInvalidJSON        = "invalid json"
	MsgUnknownRoute       = "Unknown route"
	MsgMethodNotAllowed   = "Method not allowed"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSONError sends a JSON error response with a single "message" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// JSONValidationError sends a JSON error response with "message" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	writeJSON(w, status, ErrorResponse{Message: message, Fields: fields})
}

// writeServiceError maps a service error onto the status codes of the API.
// Unclassified failures are 500 and carry the error text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, MsgMissingFields, verr.Fields, http.StatusBadRequest)
	case errors.Is(err, errs.ErrValidation):
		JSONError(w, MsgMissingFields, http.StatusBadRequest)
	case errors.Is(err, errs.ErrInvalidCredentials):
		JSONError(w, MsgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, errs.ErrUnauthenticated):
		JSONError(w, MsgUnauthorized, http.StatusUnauthorized)
	case errors.Is(err, errs.ErrForbidden):
		JSONError(w, MsgForbidden, http.StatusForbidden)
	case errors.Is(err, errs.ErrNotFound):
		JSONError(w, MsgNoteNotFound, http.StatusNotFound)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
