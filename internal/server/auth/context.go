package auth

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// ContextWithUser stores the authenticated user and the token that proved it.
func ContextWithUser(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the user stored by ContextWithUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// TokenFromContext returns the token stored by ContextWithUser.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok && t != ""
}
