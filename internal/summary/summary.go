// Package summary holds the pure grouping functions behind the public
// dashboard pages. Every builder is a deterministic, side-effect-free
// reduction over already-fetched rows; sorting is descending by the primary
// metric with ties left in insertion order.
package summary

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Unspecified is the bucket for rows with a blank department or vendor.
const Unspecified = "Unspecified"

// BudgetRow mirrors one budget_rows record. Budgets are year-granular and
// carry no period.
type BudgetRow struct {
	FiscalYear     int             `json:"fiscal_year"`
	Fund           string          `json:"fund,omitempty"`
	DepartmentName string          `json:"department_name"`
	Category       string          `json:"category,omitempty"`
	Account        string          `json:"account,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

// ActualRow mirrors one actual_rows record.
type ActualRow struct {
	FiscalYear     int             `json:"fiscal_year"`
	FiscalPeriod   int             `json:"fiscal_period"`
	Period         string          `json:"period"`
	DepartmentName string          `json:"department_name"`
	Category       string          `json:"category,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

// TransactionRow mirrors one transaction_rows record.
type TransactionRow struct {
	Date           string          `json:"date"`
	FiscalYear     int             `json:"fiscal_year"`
	FiscalPeriod   int             `json:"fiscal_period"`
	Vendor         string          `json:"vendor,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
}

// RevenueRow mirrors one revenue_rows record.
type RevenueRow struct {
	FiscalYear     int             `json:"fiscal_year"`
	FiscalPeriod   int             `json:"fiscal_period"`
	Period         string          `json:"period"`
	DepartmentName string          `json:"department_name"`
	Source         string          `json:"source,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

// DepartmentSummary is one row of the departments dashboard.
type DepartmentSummary struct {
	Department       string          `json:"department"`
	Budget           decimal.Decimal `json:"budget"`
	Actuals          decimal.Decimal `json:"actuals"`
	Variance         decimal.Decimal `json:"variance"`
	PercentSpent     float64         `json:"percent_spent"`
	TransactionCount int             `json:"transaction_count"`
}

// VendorSummary is one row of the vendors dashboard.
type VendorSummary struct {
	Vendor           string          `json:"vendor"`
	Total            decimal.Decimal `json:"total"`
	TransactionCount int             `json:"transaction_count"`
}

// SourceShare is one slice of the revenue-source distribution.
type SourceShare struct {
	Source  string          `json:"source"`
	Total   decimal.Decimal `json:"total"`
	Percent float64         `json:"percent"`
}

// YearTotals is one point of the year-over-year series.
type YearTotals struct {
	FiscalYear int             `json:"fiscal_year"`
	Budget     decimal.Decimal `json:"budget"`
	Actuals    decimal.Decimal `json:"actuals"`
}

// PeriodTotal is one point of the monthly actuals trend.
type PeriodTotal struct {
	FiscalPeriod int             `json:"fiscal_period"`
	Total        decimal.Decimal `json:"total"`
}

func bucketName(name string) string {
	if strings.TrimSpace(name) == "" {
		return Unspecified
	}
	return strings.TrimSpace(name)
}

// ByDepartment groups budgets, actuals and transactions for one fiscal year
// into per-department summaries: summed budget, summed actuals, variance
// (actuals - budget), percent spent (0 when budget is 0) and transaction
// count. Rows with a blank department collapse into "Unspecified". The
// result is sorted descending by budget, ties in first-seen order.
func ByDepartment(budgets []BudgetRow, actuals []ActualRow, transactions []TransactionRow, year int) []DepartmentSummary {
	type acc struct {
		budget  decimal.Decimal
		actuals decimal.Decimal
		txCount int
	}
	order := []string{}
	byDept := map[string]*acc{}
	get := func(name string) *acc {
		key := bucketName(name)
		a, ok := byDept[key]
		if !ok {
			a = &acc{}
			byDept[key] = a
			order = append(order, key)
		}
		return a
	}

	for _, b := range budgets {
		if b.FiscalYear != year {
			continue
		}
		a := get(b.DepartmentName)
		a.budget = a.budget.Add(b.Amount)
	}
	for _, row := range actuals {
		if row.FiscalYear != year {
			continue
		}
		a := get(row.DepartmentName)
		a.actuals = a.actuals.Add(row.Amount)
	}
	for _, t := range transactions {
		if t.FiscalYear != year {
			continue
		}
		get(t.DepartmentName).txCount++
	}

	out := make([]DepartmentSummary, 0, len(order))
	for _, dept := range order {
		a := byDept[dept]
		s := DepartmentSummary{
			Department:       dept,
			Budget:           a.budget,
			Actuals:          a.actuals,
			Variance:         a.actuals.Sub(a.budget),
			TransactionCount: a.txCount,
		}
		if !a.budget.IsZero() {
			s.PercentSpent, _ = a.actuals.Div(a.budget).Mul(decimal.NewFromInt(100)).Float64()
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Budget.GreaterThan(out[j].Budget)
	})
	return out
}

// TopVendors returns the n vendors with the highest transaction spend for
// one fiscal year, descending by total.
func TopVendors(transactions []TransactionRow, year, n int) []VendorSummary {
	order := []string{}
	totals := map[string]*VendorSummary{}
	for _, t := range transactions {
		if t.FiscalYear != year {
			continue
		}
		key := bucketName(t.Vendor)
		v, ok := totals[key]
		if !ok {
			v = &VendorSummary{Vendor: key}
			totals[key] = v
			order = append(order, key)
		}
		v.Total = v.Total.Add(t.Amount)
		v.TransactionCount++
	}

	out := make([]VendorSummary, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// revenueSourceLimit is how many named sources appear before the rest
// collapse into "Other".
const revenueSourceLimit = 7

// RevenueSources returns the revenue distribution for one fiscal year: the
// top seven sources by total plus an "Other" bucket holding the remainder.
// Percentages are of the whole year's revenue.
func RevenueSources(revenues []RevenueRow, year int) []SourceShare {
	order := []string{}
	totals := map[string]decimal.Decimal{}
	grand := decimal.Zero
	for _, r := range revenues {
		if r.FiscalYear != year {
			continue
		}
		key := bucketName(r.Source)
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] = totals[key].Add(r.Amount)
		grand = grand.Add(r.Amount)
	}

	shares := make([]SourceShare, 0, len(order))
	for _, key := range order {
		shares = append(shares, SourceShare{Source: key, Total: totals[key]})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.GreaterThan(shares[j].Total)
	})

	if len(shares) > revenueSourceLimit {
		other := SourceShare{Source: "Other"}
		for _, s := range shares[revenueSourceLimit:] {
			other.Total = other.Total.Add(s.Total)
		}
		shares = append(shares[:revenueSourceLimit], other)
	}
	for i := range shares {
		if !grand.IsZero() {
			shares[i].Percent, _ = shares[i].Total.Div(grand).Mul(decimal.NewFromInt(100)).Float64()
		}
	}
	return shares
}

// YearOverYear totals budgets and actuals per fiscal year, ascending by
// year.
func YearOverYear(budgets []BudgetRow, actuals []ActualRow) []YearTotals {
	years := map[int]*YearTotals{}
	for _, b := range budgets {
		yt, ok := years[b.FiscalYear]
		if !ok {
			yt = &YearTotals{FiscalYear: b.FiscalYear}
			years[b.FiscalYear] = yt
		}
		yt.Budget = yt.Budget.Add(b.Amount)
	}
	for _, a := range actuals {
		yt, ok := years[a.FiscalYear]
		if !ok {
			yt = &YearTotals{FiscalYear: a.FiscalYear}
			years[a.FiscalYear] = yt
		}
		yt.Actuals = yt.Actuals.Add(a.Amount)
	}

	out := make([]YearTotals, 0, len(years))
	for _, yt := range years {
		out = append(out, *yt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear < out[j].FiscalYear })
	return out
}

// MonthlyActuals totals actuals per fiscal period for one year. All twelve
// periods are present, zero-filled.
func MonthlyActuals(actuals []ActualRow, year int) []PeriodTotal {
	out := make([]PeriodTotal, 12)
	for i := range out {
		out[i].FiscalPeriod = i + 1
	}
	for _, a := range actuals {
		if a.FiscalYear != year || a.FiscalPeriod < 1 || a.FiscalPeriod > 12 {
			continue
		}
		out[a.FiscalPeriod-1].Total = out[a.FiscalPeriod-1].Total.Add(a.Amount)
	}
	return out
}
