package portal

import (
	"encoding/json"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"
	"CiviPortal/api/utils"
	"CiviPortal/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactions serves the raw checkbook listing, paged in fixed-size
// ranges.
func Transactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)

		params, err := utils.ExtractPagination(r, config.BatchSize)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		total, err := utils.CountTotal(ctx, pool,
			`SELECT COUNT(*) FROM transaction_rows WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)`,
			tenantID, year,
		)
		if err != nil {
			api.LogError("transactions count failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}
		params.SetPaginationStats(total)

		rows, err := fetchTransactionPage(ctx, pool, tenantID, year, params.Limit, params.Offset)
		if err != nil {
			api.LogError("transactions load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"fiscal_year":          year,
			"pagination":           params,
			"rows":                 rows,
		})
	}
}
