package api

import (
	"context"

	"CiviPortal/api/auth"
)

type contextKey string

const (
	SessionKey    contextKey = "session"
	TenantIDKey   contextKey = "tenantID"
	TenantSlugKey contextKey = "tenantSlug"
	RoleKey       contextKey = "role"
)

// Helper functions for context retrieval (used by middlewares in subdirectory)

func SessionFromCtx(ctx context.Context) *auth.UserSession {
	if s, ok := ctx.Value(SessionKey).(*auth.UserSession); ok {
		return s
	}
	return nil
}

func TenantIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(TenantIDKey).(string); ok {
		return id
	}
	return ""
}

func TenantSlugFromCtx(ctx context.Context) string {
	if slug, ok := ctx.Value(TenantSlugKey).(string); ok {
		return slug
	}
	return ""
}

func RoleFromCtx(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}

// RequestedByFromCtx resolves a display name for audit rows: the session name
// when present, falling back to the user id.
func RequestedByFromCtx(ctx context.Context, userID string) string {
	if s := SessionFromCtx(ctx); s != nil {
		if s.Name != "" {
			return s.Name
		}
		return s.UserID
	}
	for _, s := range auth.GetActiveSessions() {
		if s.UserID == userID {
			return s.Name
		}
	}
	return ""
}
