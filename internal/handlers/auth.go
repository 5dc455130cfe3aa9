package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/notehub/internal/models"
)

// Authenticator is the part of the auth service the login route needs.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth Authenticator
}

// ==========================
// Login (username + password -> {token, name, email})
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	resp, err := h.Auth.Login(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
