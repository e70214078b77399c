package portal

import (
	"encoding/json"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"
	"CiviPortal/internal/summary"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Revenues serves the revenue-source distribution for the selected year:
// the top sources plus an "Other" bucket.
func Revenues(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)

		revenues, err := fetchRevenues(ctx, pool, tenantID, year)
		if err != nil {
			api.LogError("revenues load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		total := decimal.Zero
		for _, rv := range revenues {
			total = total.Add(rv.Amount)
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"fiscal_year":          year,
			"total_revenue":        total,
			"sources":              summary.RevenueSources(revenues, year),
		})
	}
}
