package middlewares

import (
	"context"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/admin/settings"
	"CiviPortal/api/constants"
	"CiviPortal/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
)

type settingsKeyType struct{}

var settingsKey settingsKeyType

// SettingsFromCtx returns the tenant settings loaded by PortalAccess.
func SettingsFromCtx(ctx context.Context) *settings.PortalSettings {
	if s, ok := ctx.Value(settingsKey).(*settings.PortalSettings); ok {
		return s
	}
	return nil
}

// PortalAccess resolves the tenant for a public portal request from the
// `city` query parameter, loads its settings and gates unpublished portals.
// Logged-in staff of the same tenant may preview an unpublished portal by
// passing their user_id.
func PortalAccess(pool *pgxpool.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := r.URL.Query().Get("city")
			if slug == "" {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrTenantRequired)
				return
			}

			s, err := settings.LoadBySlug(r.Context(), pool, slug)
			if err != nil {
				api.RespondWithError(w, http.StatusNotFound, constants.ErrTenantNotFound)
				return
			}

			if !s.IsPublished && !isStaffPreview(r, s.TenantID) {
				api.RespondWithError(w, http.StatusNotFound, constants.ErrPortalNotPublished)
				return
			}

			ctx := context.WithValue(r.Context(), settingsKey, s)
			ctx = context.WithValue(ctx, api.TenantIDKey, s.TenantID)
			ctx = context.WithValue(ctx, api.TenantSlugKey, slug)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isStaffPreview(r *http.Request, tenantID string) bool {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		return false
	}
	session := validation.ValidateSession(userID)
	return session != nil && session.TenantID == tenantID
}

// RequireModule gates a portal section behind its tenant module flag.
func RequireModule(section string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := SettingsFromCtx(r.Context())
			if s == nil {
				api.RespondWithError(w, http.StatusNotFound, constants.ErrTenantNotFound)
				return
			}
			if !s.ModuleEnabled(section) {
				api.RespondWithError(w, http.StatusNotFound, constants.ErrModuleDisabled)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
