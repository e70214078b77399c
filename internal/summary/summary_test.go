package summary

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestByDepartment(t *testing.T) {
	budgets := []BudgetRow{
		{FiscalYear: 2027, DepartmentName: "Fire", Amount: dec("100")},
		{FiscalYear: 2027, DepartmentName: "Fire", Amount: dec("50")},
		{FiscalYear: 2027, DepartmentName: "Parks", Amount: dec("200")},
		{FiscalYear: 2026, DepartmentName: "Fire", Amount: dec("999")},
	}
	actuals := []ActualRow{
		{FiscalYear: 2027, DepartmentName: "Fire", Amount: dec("120")},
		{FiscalYear: 2027, DepartmentName: "Parks", Amount: dec("40")},
		{FiscalYear: 2026, DepartmentName: "Parks", Amount: dec("999")},
	}
	transactions := []TransactionRow{
		{FiscalYear: 2027, DepartmentName: "Fire", Amount: dec("60")},
		{FiscalYear: 2027, DepartmentName: "Fire", Amount: dec("60")},
		{FiscalYear: 2027, DepartmentName: "Parks", Amount: dec("40")},
	}

	got := ByDepartment(budgets, actuals, transactions, 2027)
	if len(got) != 2 {
		t.Fatalf("expected 2 departments, got %d: %+v", len(got), got)
	}
	// Parks has the larger budget and sorts first.
	if got[0].Department != "Parks" || got[1].Department != "Fire" {
		t.Fatalf("wrong order: %q, %q", got[0].Department, got[1].Department)
	}

	fire := got[1]
	if !fire.Budget.Equal(dec("150")) {
		t.Errorf("Fire budget = %s, want 150", fire.Budget)
	}
	if !fire.Actuals.Equal(dec("120")) {
		t.Errorf("Fire actuals = %s, want 120", fire.Actuals)
	}
	if !fire.Variance.Equal(dec("-30")) {
		t.Errorf("Fire variance = %s, want -30", fire.Variance)
	}
	if fire.PercentSpent != 80 {
		t.Errorf("Fire percent spent = %v, want 80", fire.PercentSpent)
	}
	if fire.TransactionCount != 2 {
		t.Errorf("Fire transaction count = %d, want 2", fire.TransactionCount)
	}
}

func TestByDepartmentZeroBudget(t *testing.T) {
	actuals := []ActualRow{{FiscalYear: 2027, DepartmentName: "Library", Amount: dec("75")}}
	got := ByDepartment(nil, actuals, nil, 2027)
	if len(got) != 1 {
		t.Fatalf("expected 1 department, got %d", len(got))
	}
	if got[0].PercentSpent != 0 {
		t.Errorf("percent spent with zero budget = %v, want 0", got[0].PercentSpent)
	}
	if !got[0].Variance.Equal(dec("75")) {
		t.Errorf("variance = %s, want 75", got[0].Variance)
	}
}

func TestByDepartmentBlankCollapsesToUnspecified(t *testing.T) {
	budgets := []BudgetRow{
		{FiscalYear: 2027, DepartmentName: "", Amount: dec("10")},
		{FiscalYear: 2027, DepartmentName: "  ", Amount: dec("5")},
	}
	actuals := []ActualRow{{FiscalYear: 2027, DepartmentName: "", Amount: dec("3")}}
	got := ByDepartment(budgets, actuals, nil, 2027)
	if len(got) != 1 {
		t.Fatalf("expected blank departments to collapse, got %+v", got)
	}
	if got[0].Department != Unspecified {
		t.Errorf("department = %q, want %q", got[0].Department, Unspecified)
	}
	if !got[0].Budget.Equal(dec("15")) {
		t.Errorf("budget = %s, want 15", got[0].Budget)
	}
}

func TestTopVendors(t *testing.T) {
	txs := []TransactionRow{
		{FiscalYear: 2027, Vendor: "Acme Paving", Amount: dec("500")},
		{FiscalYear: 2027, Vendor: "Acme Paving", Amount: dec("250")},
		{FiscalYear: 2027, Vendor: "Office Depot", Amount: dec("100")},
		{FiscalYear: 2027, Vendor: "", Amount: dec("900")},
		{FiscalYear: 2026, Vendor: "Acme Paving", Amount: dec("9999")},
	}
	got := TopVendors(txs, 2027, 2)
	if len(got) != 2 {
		t.Fatalf("expected top 2, got %d", len(got))
	}
	if got[0].Vendor != Unspecified || !got[0].Total.Equal(dec("900")) {
		t.Errorf("first vendor = %+v, want Unspecified/900", got[0])
	}
	if got[1].Vendor != "Acme Paving" || !got[1].Total.Equal(dec("750")) {
		t.Errorf("second vendor = %+v, want Acme Paving/750", got[1])
	}
	if got[1].TransactionCount != 2 {
		t.Errorf("Acme count = %d, want 2", got[1].TransactionCount)
	}
}

func TestRevenueSourcesTopSevenPlusOther(t *testing.T) {
	var revs []RevenueRow
	names := []string{"Property Tax", "Sales Tax", "Utility Fees", "Permits", "Grants", "Fines", "Franchise Fees", "Interest", "Donations"}
	for i, name := range names {
		revs = append(revs, RevenueRow{FiscalYear: 2027, Source: name, Amount: decimal.NewFromInt(int64(900 - i*100))})
	}
	got := RevenueSources(revs, 2027)
	if len(got) != 8 {
		t.Fatalf("expected 7 sources + Other, got %d: %+v", len(got), got)
	}
	if got[0].Source != "Property Tax" {
		t.Errorf("largest source = %q, want Property Tax", got[0].Source)
	}
	last := got[7]
	if last.Source != "Other" {
		t.Fatalf("last slice = %q, want Other", last.Source)
	}
	// Interest (200) + Donations (100).
	if !last.Total.Equal(dec("300")) {
		t.Errorf("Other total = %s, want 300", last.Total)
	}
	var pct float64
	for _, s := range got {
		pct += s.Percent
	}
	if pct < 99.99 || pct > 100.01 {
		t.Errorf("percentages sum to %v, want ~100", pct)
	}
}

func TestRevenueSourcesFewSources(t *testing.T) {
	revs := []RevenueRow{
		{FiscalYear: 2027, Source: "Property Tax", Amount: dec("60")},
		{FiscalYear: 2027, Source: "Sales Tax", Amount: dec("40")},
	}
	got := RevenueSources(revs, 2027)
	if len(got) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(got))
	}
	if got[0].Percent != 60 || got[1].Percent != 40 {
		t.Errorf("percents = %v/%v, want 60/40", got[0].Percent, got[1].Percent)
	}
}

func TestYearOverYear(t *testing.T) {
	budgets := []BudgetRow{
		{FiscalYear: 2027, DepartmentName: "Fire", Amount: dec("150")},
		{FiscalYear: 2026, DepartmentName: "Fire", Amount: dec("140")},
	}
	actuals := []ActualRow{
		{FiscalYear: 2026, DepartmentName: "Fire", Amount: dec("130")},
		{FiscalYear: 2028, DepartmentName: "Fire", Amount: dec("10")},
	}
	got := YearOverYear(budgets, actuals)
	if len(got) != 3 {
		t.Fatalf("expected 3 years, got %d", len(got))
	}
	wantYears := []int{2026, 2027, 2028}
	for i, y := range wantYears {
		if got[i].FiscalYear != y {
			t.Fatalf("years out of order: %+v", got)
		}
	}
	if !got[0].Budget.Equal(dec("140")) || !got[0].Actuals.Equal(dec("130")) {
		t.Errorf("2026 totals = %+v", got[0])
	}
	if !got[2].Budget.IsZero() || !got[2].Actuals.Equal(dec("10")) {
		t.Errorf("2028 totals = %+v", got[2])
	}
}

func TestMonthlyActualsZeroFilled(t *testing.T) {
	actuals := []ActualRow{
		{FiscalYear: 2027, FiscalPeriod: 1, Amount: dec("10")},
		{FiscalYear: 2027, FiscalPeriod: 1, Amount: dec("5")},
		{FiscalYear: 2027, FiscalPeriod: 12, Amount: dec("7")},
		{FiscalYear: 2026, FiscalPeriod: 2, Amount: dec("99")},
	}
	got := MonthlyActuals(actuals, 2027)
	if len(got) != 12 {
		t.Fatalf("expected 12 periods, got %d", len(got))
	}
	if !got[0].Total.Equal(dec("15")) {
		t.Errorf("period 1 = %s, want 15", got[0].Total)
	}
	if !got[1].Total.IsZero() {
		t.Errorf("period 2 = %s, want 0", got[1].Total)
	}
	if !got[11].Total.Equal(dec("7")) {
		t.Errorf("period 12 = %s, want 7", got[11].Total)
	}
}
