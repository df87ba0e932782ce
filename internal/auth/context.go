package auth

import (
	"context"
	"strings"
)

type ctxKey string

const userKey ctxKey = "auth_user"

// ContextWithUser stores the authenticated caller in the context. Every
// operation receives its caller this way; there is no ambient identity.
func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated caller from context.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	if !ok || strings.TrimSpace(u.ID) == "" {
		return User{}, false
	}
	return u, true
}

// UserIDFromContext extracts just the caller id from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return "", false
	}
	return u.ID, true
}
