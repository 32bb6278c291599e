package middleware

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

type contextKey string

const authContextKey contextKey = "auth"

type authInfo struct {
	userID string
	role   domain.Role
}

// WithAuth injects the authenticated caller into the context.
func WithAuth(ctx context.Context, userID string, role domain.Role) context.Context {
	return context.WithValue(ctx, authContextKey, authInfo{userID: userID, role: role})
}

// AuthFromContext returns the caller's user id and role, or zero values.
func AuthFromContext(ctx context.Context) (userID string, role domain.Role) {
	v := ctx.Value(authContextKey)
	if v == nil {
		return "", ""
	}
	a, _ := v.(authInfo)
	return a.userID, a.role
}
