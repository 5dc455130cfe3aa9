package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/notehub/internal/errs"
	"github.com/crucial707/notehub/internal/models"
)

type key string

const identityKey key = "identity"

// TokenVerifier checks the value of an Authorization header.
type TokenVerifier interface {
	VerifyToken(authHeader string) (models.Identity, error)
}

// RequireToken rejects requests without a valid bearer token: 401 when the
// header is missing or malformed, 403 when the token does not verify. On
// success the token's identity is stored in the request context.
func RequireToken(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.VerifyToken(r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, errs.ErrUnauthenticated) {
					writeMessage(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				slog.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "error", err)
				writeMessage(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by RequireToken.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}
