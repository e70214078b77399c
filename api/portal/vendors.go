package portal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"
	"CiviPortal/internal/summary"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultVendorLimit = 25

// Vendors serves the top vendors by transaction spend for the selected
// year. `limit` caps the list, default 25.
func Vendors(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)

		limit := defaultVendorLimit
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
				limit = v
			}
		}

		txs, err := fetchTransactions(ctx, pool, tenantID, year)
		if err != nil {
			api.LogError("vendors load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"fiscal_year":          year,
			"vendors":              summary.TopVendors(txs, year, limit),
		})
	}
}
