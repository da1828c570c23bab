package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack-backend/pkg/visibility"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxEmail   contextKey = "email"
	ctxIsAdmin contextKey = "is_admin"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// ViewerFromContext assembles the visibility viewer for the request. Requests
// that never passed the auth middleware yield an anonymous viewer.
func ViewerFromContext(ctx context.Context) visibility.Viewer {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return visibility.Viewer{}
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return visibility.Viewer{}
	}
	return visibility.Viewer{
		UserID:        userID,
		IsAdmin:       IsAdminFromContext(ctx),
		Authenticated: true,
	}
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithIsAdmin injects the admin flag into the context for downstream handlers.
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}
