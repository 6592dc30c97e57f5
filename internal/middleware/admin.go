package middleware

import (
	"net/http"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/auth"
)

// RequireAdmin gates the admin surface behind the operator credentials
// carried in the X-Admin-Phone and X-Admin-Password headers. There is
// no admin role on user accounts; the capability lives entirely in the
// deployment configuration.
func RequireAdmin(admin auth.AdminAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			phone := r.Header.Get("X-Admin-Phone")
			password := r.Header.Get("X-Admin-Password")
			if !admin.Verify(phone, password) {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin credentials", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
