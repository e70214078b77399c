package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"CiviPortal/api"
	"CiviPortal/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PortalUser is one account on a tenant's admin roster.
type PortalUser struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the three portal roles.
func ValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case constants.RoleSuperAdmin, constants.RoleAdmin, constants.RoleViewer:
		return true
	}
	return false
}

// CanDelete applies the roster safety rules: a user may not remove their own
// account, and the tenant's last super admin may not be removed.
func CanDelete(requesterID, targetID, targetRole string, superAdminCount int) (bool, string) {
	if requesterID == targetID {
		return false, constants.ErrUserSelfDelete
	}
	if strings.EqualFold(targetRole, constants.RoleSuperAdmin) && superAdminCount <= 1 {
		return false, constants.ErrUserLastSuperAdmin
	}
	return true, ""
}

// InviteUser creates an invited account on the requester's tenant. Only a
// super admin may invite; the new account stays in status "invited" until
// the user sets a password.
func InviteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !strings.EqualFold(api.RoleFromCtx(ctx), constants.RoleSuperAdmin) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrSuperAdminOnly)
			return
		}
		tenantID := api.TenantIDFromCtx(ctx)
		if tenantID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrTenantRequired)
			return
		}
		var req struct {
			UserID      string `json:"user_id"`
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
			Role        string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || !strings.Contains(email, "@") {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserEmailRequired)
			return
		}
		if !ValidRole(req.Role) {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserRoleInvalid)
			return
		}
		role := strings.ToLower(strings.TrimSpace(req.Role))
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			name = email
		}

		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO users (tenant_id, email, display_name, role, status)
			VALUES ($1, $2, $3, $4, 'invited')
			ON CONFLICT (tenant_id, email) DO NOTHING
			RETURNING id`,
			tenantID, email, name, role,
		).Scan(&id)
		if err != nil {
			api.LogError("invite user: " + err.Error())
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUserInviteFailed)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"user_id":              id,
		})
	}
}

// DeleteUser removes an account from the requester's tenant. Only a super
// admin may delete; self-deletion and removing the last super admin are
// refused.
func DeleteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := api.SessionFromCtx(ctx)
		if session == nil || !strings.EqualFold(session.Role, constants.RoleSuperAdmin) {
			api.RespondWithError(w, http.StatusForbidden, constants.ErrSuperAdminOnly)
			return
		}
		var req struct {
			UserID   string `json:"user_id"`
			TargetID string `json:"target_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		defer tx.Rollback(ctx)

		var targetRole string
		err = tx.QueryRow(ctx,
			`SELECT role FROM users WHERE id = $1 AND tenant_id = $2`,
			req.TargetID, session.TenantID,
		).Scan(&targetRole)
		if err != nil {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrUserNotFound)
			return
		}

		var superAdmins int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND role = $2 AND status != 'deleted'`,
			session.TenantID, constants.RoleSuperAdmin,
		).Scan(&superAdmins)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrUserDeleteFailed)
			return
		}

		if ok, reason := CanDelete(session.UserID, req.TargetID, targetRole, superAdmins); !ok {
			api.RespondWithError(w, http.StatusBadRequest, reason)
			return
		}

		if _, err := tx.Exec(ctx,
			`UPDATE users SET status = 'deleted' WHERE id = $1 AND tenant_id = $2`,
			req.TargetID, session.TenantID,
		); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrUserDeleteFailed)
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"deleted_id":           req.TargetID,
		})
	}
}

// ListUsers returns the tenant's roster, newest first.
func ListUsers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tenantID := api.TenantIDFromCtx(ctx)
		if tenantID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrTenantRequired)
			return
		}
		rows, err := pool.Query(ctx, `
			SELECT id, tenant_id, email, display_name, role, status, created_at
			FROM users
			WHERE tenant_id = $1 AND status != 'deleted'
			ORDER BY created_at DESC`,
			tenantID,
		)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}
		defer rows.Close()

		out := []PortalUser{}
		for rows.Next() {
			var u PortalUser
			if err := rows.Scan(&u.ID, &u.TenantID, &u.Email, &u.DisplayName, &u.Role, &u.Status, &u.CreatedAt); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
				return
			}
			out = append(out, u)
		}
		api.RespondWithPayload(w, true, "", out)
	}
}
