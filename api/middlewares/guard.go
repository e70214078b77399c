package middlewares

import (
	"context"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/internal/validation"
)

// AdminGuard is the single authorization gate for admin endpoints: it
// extracts the caller's user_id, checks the in-memory session, and verifies
// the session role against the allowed capability roles. The session, tenant
// and role are injected into the request context for the handler.
func AdminGuard(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := validation.ExtractUserID(r)
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserIDRequired)
				return
			}

			session := validation.ValidateSession(userID)
			if session == nil {
				api.RespondWithError(w, http.StatusUnauthorized, constants.ErrSessionExpired)
				return
			}
			if !validation.RoleAllows(session.Role, roles...) {
				api.RespondWithError(w, http.StatusForbidden, constants.ErrForbiddenRole)
				return
			}

			ctx := context.WithValue(r.Context(), api.SessionKey, session)
			ctx = context.WithValue(ctx, api.TenantIDKey, session.TenantID)
			ctx = context.WithValue(ctx, api.RoleKey, session.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
