package portal

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CiviPortal/api/admin/settings"
	"CiviPortal/api/constants"
	"CiviPortal/internal/config"
	"CiviPortal/internal/summary"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// queryYear resolves the fiscal year a portal page is looking at: the `year`
// query parameter when present and in range, else the latest year with data
// for the tenant, else the current fiscal year.
func queryYear(ctx context.Context, pool *pgxpool.Pool, r *http.Request, tenantID string, s *settings.PortalSettings) int {
	if y := r.URL.Query().Get("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil &&
			year >= constants.MinFiscalYear && year <= constants.MaxFiscalYear {
			return year
		}
	}
	if year, err := latestFiscalYear(ctx, pool, tenantID); err == nil && year > 0 {
		return year
	}
	return s.FiscalConfig().YearForDate(time.Now())
}

// financialTables are the tables carrying per-tenant fiscal_year rows. The
// year pickers below must consider every one of them: a tenant whose only
// data is transactions or revenues still has a latest data year.
var financialTables = []string{"budget_rows", "actual_rows", "transaction_rows", "revenue_rows"}

func yearsUnion(op string) string {
	parts := make([]string, len(financialTables))
	for i, t := range financialTables {
		parts[i] = "SELECT fiscal_year FROM " + t + " WHERE tenant_id = $1"
	}
	return strings.Join(parts, " "+op+" ")
}

func latestFiscalYear(ctx context.Context, pool *pgxpool.Pool, tenantID string) (int, error) {
	var year int
	err := pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(fiscal_year), 0) FROM (`+yearsUnion("UNION ALL")+`) y`,
		tenantID,
	).Scan(&year)
	return year, err
}

// availableYears lists the distinct fiscal years with any data, descending.
func availableYears(ctx context.Context, pool *pgxpool.Pool, tenantID string) ([]int, error) {
	rows, err := pool.Query(ctx,
		`SELECT DISTINCT fiscal_year FROM (`+yearsUnion("UNION")+`) y ORDER BY fiscal_year DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

func scanAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// year = 0 fetches all years.
func fetchBudgets(ctx context.Context, pool *pgxpool.Pool, tenantID string, year int) ([]summary.BudgetRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT fiscal_year, COALESCE(fund,''), department_name, COALESCE(category,''),
		       COALESCE(account,''), amount::text
		FROM budget_rows
		WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)`,
		tenantID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []summary.BudgetRow{}
	for rows.Next() {
		var b summary.BudgetRow
		var amount string
		if err := rows.Scan(&b.FiscalYear, &b.Fund, &b.DepartmentName, &b.Category, &b.Account, &amount); err != nil {
			return nil, err
		}
		b.Amount = scanAmount(amount)
		out = append(out, b)
	}
	return out, rows.Err()
}

func fetchActuals(ctx context.Context, pool *pgxpool.Pool, tenantID string, year int) ([]summary.ActualRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT fiscal_year, fiscal_period, period, department_name,
		       COALESCE(category,''), amount::text
		FROM actual_rows
		WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)`,
		tenantID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []summary.ActualRow{}
	for rows.Next() {
		var a summary.ActualRow
		var amount string
		if err := rows.Scan(&a.FiscalYear, &a.FiscalPeriod, &a.Period, &a.DepartmentName, &a.Category, &amount); err != nil {
			return nil, err
		}
		a.Amount = scanAmount(amount)
		out = append(out, a)
	}
	return out, rows.Err()
}

func fetchRevenues(ctx context.Context, pool *pgxpool.Pool, tenantID string, year int) ([]summary.RevenueRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT fiscal_year, fiscal_period, period, COALESCE(department_name,''),
		       COALESCE(source,''), amount::text
		FROM revenue_rows
		WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)`,
		tenantID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []summary.RevenueRow{}
	for rows.Next() {
		var rv summary.RevenueRow
		var amount string
		if err := rows.Scan(&rv.FiscalYear, &rv.FiscalPeriod, &rv.Period, &rv.DepartmentName, &rv.Source, &amount); err != nil {
			return nil, err
		}
		rv.Amount = scanAmount(amount)
		out = append(out, rv)
	}
	return out, rows.Err()
}

const transactionSelect = `
	SELECT txn_date::text, fiscal_year, fiscal_period, COALESCE(vendor,''),
	       COALESCE(department_name,''), description, amount::text
	FROM transaction_rows`

func scanTransactions(rows pgx.Rows) ([]summary.TransactionRow, error) {
	defer rows.Close()
	out := []summary.TransactionRow{}
	for rows.Next() {
		var t summary.TransactionRow
		var amount string
		if err := rows.Scan(&t.Date, &t.FiscalYear, &t.FiscalPeriod, &t.Vendor, &t.DepartmentName, &t.Description, &amount); err != nil {
			return nil, err
		}
		t.Amount = scanAmount(amount)
		out = append(out, t)
	}
	return out, rows.Err()
}

// fetchTransactions reads all of a year's transactions in fixed-size batches
// rather than one unbounded query.
func fetchTransactions(ctx context.Context, pool *pgxpool.Pool, tenantID string, year int) ([]summary.TransactionRow, error) {
	all := []summary.TransactionRow{}
	for offset := 0; ; offset += config.BatchSize {
		rows, err := pool.Query(ctx, transactionSelect+`
			WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)
			ORDER BY txn_date DESC, id
			LIMIT $3 OFFSET $4`,
			tenantID, year, config.BatchSize, offset,
		)
		if err != nil {
			return nil, err
		}
		batch, err := scanTransactions(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < config.BatchSize {
			return all, nil
		}
	}
}

// fetchTransactionPage reads one page for the raw transactions listing.
func fetchTransactionPage(ctx context.Context, pool *pgxpool.Pool, tenantID string, year, limit, offset int) ([]summary.TransactionRow, error) {
	rows, err := pool.Query(ctx, transactionSelect+`
		WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)
		ORDER BY txn_date DESC, id
		LIMIT $3 OFFSET $4`,
		tenantID, year, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}
