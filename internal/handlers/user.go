package handlers

import (
	"context"
	"net/http"

	"github.com/crucial707/notehub/internal/models"
)

// Registrar creates user accounts.
type Registrar interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
}

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users Registrar
}

// ==========================
// Register (POST /users)
// ==========================
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Users.Register(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}
