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
	"golang.org/x/sync/errgroup"
)

// Overview is the portal's landing payload: year totals, the department
// summary and the year-over-year series. The reads behind it are
// independent so they fan out in parallel.
func Overview(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)

		var (
			budgetsYear []summary.BudgetRow
			actualsYear []summary.ActualRow
			txYear      []summary.TransactionRow
			budgetsAll  []summary.BudgetRow
			actualsAll  []summary.ActualRow
			years       []int
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			budgetsYear, err = fetchBudgets(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			actualsYear, err = fetchActuals(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			txYear, err = fetchTransactions(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			budgetsAll, err = fetchBudgets(gctx, pool, tenantID, 0)
			return
		})
		g.Go(func() (err error) {
			actualsAll, err = fetchActuals(gctx, pool, tenantID, 0)
			return
		})
		g.Go(func() (err error) {
			years, err = availableYears(gctx, pool, tenantID)
			return
		})
		if err := g.Wait(); err != nil {
			api.LogError("overview load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		totalBudget := decimal.Zero
		for _, b := range budgetsYear {
			totalBudget = totalBudget.Add(b.Amount)
		}
		totalActuals := decimal.Zero
		for _, a := range actualsYear {
			totalActuals = totalActuals.Add(a.Amount)
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"city_name":            s.CityName,
			"tagline":              s.Tagline,
			"fiscal_year":          year,
			"available_years":      years,
			"total_budget":         totalBudget,
			"total_actuals":        totalActuals,
			"departments":          summary.ByDepartment(budgetsYear, actualsYear, txYear, year),
			"year_over_year":       summary.YearOverYear(budgetsAll, actualsAll),
		})
	}
}
