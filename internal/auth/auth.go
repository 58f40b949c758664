// Package auth carries the identity the external identity provider resolved
// for the current request. The core only ever needs "current user id or
// none", so the id travels on the context.
package auth

import (
	"context"
	"strings"
)

type contextKey string

const userContextKey contextKey = "promptforge/auth/user"

// WithUser returns a derived context annotated with the authenticated
// user's opaque id.
func WithUser(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userContextKey, userID)
}

// UserFromContext extracts the current user id; ok is false when no user
// is set.
func UserFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	userID, ok := ctx.Value(userContextKey).(string)
	return userID, ok && userID != ""
}
