package portal

import (
	"encoding/json"
	"net/http"
	"strings"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"
	"CiviPortal/internal/summary"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Departments lists the per-department summary for the selected year.
func Departments(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)

		var (
			budgets []summary.BudgetRow
			actuals []summary.ActualRow
			txs     []summary.TransactionRow
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			budgets, err = fetchBudgets(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			actuals, err = fetchActuals(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			txs, err = fetchTransactions(gctx, pool, tenantID, year)
			return
		})
		if err := g.Wait(); err != nil {
			api.LogError("departments load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		api.RespondWithPayload(w, true, "", summary.ByDepartment(budgets, actuals, txs, year))
	}
}

// DepartmentDetail drills into one department: its summary row plus the
// category breakdown and (when enabled) its transactions for the year.
func DepartmentDetail(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)
		year := queryYear(ctx, pool, r, tenantID, s)
		name := mux.Vars(r)["name"]

		var (
			budgets []summary.BudgetRow
			actuals []summary.ActualRow
			txs     []summary.TransactionRow
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			budgets, err = fetchBudgets(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			actuals, err = fetchActuals(gctx, pool, tenantID, year)
			return
		})
		g.Go(func() (err error) {
			txs, err = fetchTransactions(gctx, pool, tenantID, year)
			return
		})
		if err := g.Wait(); err != nil {
			api.LogError("department detail load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
			return
		}

		match := func(dept string) bool {
			if strings.TrimSpace(dept) == "" {
				return strings.EqualFold(name, summary.Unspecified)
			}
			return strings.EqualFold(strings.TrimSpace(dept), name)
		}

		var found *summary.DepartmentSummary
		for _, d := range summary.ByDepartment(budgets, actuals, txs, year) {
			if strings.EqualFold(d.Department, name) {
				dd := d
				found = &dd
				break
			}
		}
		if found == nil {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrDepartmentNotFound)
			return
		}

		deptActuals := []summary.ActualRow{}
		for _, a := range actuals {
			if match(a.DepartmentName) {
				deptActuals = append(deptActuals, a)
			}
		}

		resp := map[string]interface{}{
			constants.ValueSuccess: true,
			"fiscal_year":          year,
			"department":           found,
			"monthly_actuals":      summary.MonthlyActuals(deptActuals, year),
		}
		if s.ModuleEnabled("transactions") {
			deptTxs := []summary.TransactionRow{}
			for _, t := range txs {
				if match(t.DepartmentName) {
					deptTxs = append(deptTxs, t)
				}
			}
			resp["transactions"] = deptTxs
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(resp)
	}
}
