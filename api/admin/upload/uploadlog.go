package upload

import (
	"net/http"
	"time"

	"CiviPortal/api"
	"CiviPortal/api/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UploadLogEntry is one row of the append-only upload audit trail.
type UploadLogEntry struct {
	ID         int64     `json:"id"`
	TableName  string    `json:"table_name"`
	Mode       string    `json:"mode"`
	RowCount   int       `json:"row_count"`
	FiscalYear *int      `json:"fiscal_year"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Handler: ListUploads returns the most recent upload log entries for the
// caller's tenant.
func ListUploads(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := api.TenantIDFromCtx(r.Context())
		rows, err := pool.Query(r.Context(), `
			SELECT id, table_name, mode, row_count, fiscal_year, COALESCE(created_by,''), created_at
			FROM upload_logs
			WHERE tenant_id = $1
			ORDER BY created_at DESC
			LIMIT 100`, tenantID)
		if err != nil {
			api.LogError("upload log query failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}
		defer rows.Close()

		entries := []UploadLogEntry{}
		for rows.Next() {
			var e UploadLogEntry
			if err := rows.Scan(&e.ID, &e.TableName, &e.Mode, &e.RowCount,
				&e.FiscalYear, &e.CreatedBy, &e.CreatedAt); err == nil {
				entries = append(entries, e)
			}
		}
		api.RespondWithPayload(w, true, "", entries)
	}
}
