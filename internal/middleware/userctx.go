package middleware

import (
	"context"

	"github.com/apexeduai/vault-backend/internal/models"
)

type userKey struct{}

// WithUser stashes the authorized user for downstream handlers.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the user Auth stored on the request context.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}
