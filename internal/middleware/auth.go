package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/auth"
	"github.com/apexeduai/vault-backend/internal/services"
)

type AuthMiddleware struct {
	tm    *auth.TokenManager
	users *services.UserService
}

func NewAuthMiddleware(tm *auth.TokenManager, users *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{tm: tm, users: users}
}

// Auth admits only bearers of a valid token whose account is still
// active and inside its access window. The stored record is the source
// of truth: a token that outlives the window is rejected here even
// though its signature still checks out.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token", nil)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, err := m.tm.Parse(token)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token", nil)
			return
		}

		user, err := m.users.Authorize(r.Context(), claims.Phone)
		switch {
		case errors.Is(err, services.ErrAccessExpired):
			httpx.WriteError(w, http.StatusForbidden, "access_expired", err.Error(), nil)
			return
		case errors.Is(err, services.ErrAccountInactive):
			httpx.WriteError(w, http.StatusForbidden, "account_inactive", err.Error(), nil)
			return
		case err != nil:
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
