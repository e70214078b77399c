package portal

import (
	"encoding/json"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"
	"CiviPortal/internal/summary"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Analytics serves the trends page: the year-over-year series plus the
// selected year's per-period actuals. The monthly trend is withheld when the
// tenant has the actuals module off.
func Analytics(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)

		var (
			budgetsAll  []summary.BudgetRow
			actualsAll  []summary.ActualRow
			actualsYear []summary.ActualRow
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			budgetsAll, err = fetchBudgets(gctx, pool, tenantID, 0)
			return
		})
		g.Go(func() (err error) {
			actualsAll, err = fetchActuals(gctx, pool, tenantID, 0)
			return
		})
		g.Go(func() (err error) {
			actualsYear, err = fetchActuals(gctx, pool, tenantID, year)
			return
		})
		if err := g.Wait(); err != nil {
			api.LogError("analytics load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		resp := map[string]interface{}{
			constants.ValueSuccess: true,
			"fiscal_year":          year,
			"year_over_year":       summary.YearOverYear(budgetsAll, actualsAll),
		}
		if s.ModuleEnabled("actuals") {
			resp["monthly_actuals"] = summary.MonthlyActuals(actualsYear, year)
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(resp)
	}
}
