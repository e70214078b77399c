package upload

import (
	"strings"
	"testing"
)

func TestResolvePlanAppend(t *testing.T) {
	plan, err := ResolvePlan(PlanRequest{
		Table: "budgets", Mode: ModeAppend, RowCount: 10, YearsInData: []int{2027, 2028},
	})
	if err != nil {
		t.Fatalf("append rejected: %v", err)
	}
	if plan.DeleteAll || plan.DeleteYear != 0 {
		t.Errorf("append must have no delete step: %+v", plan)
	}
}

func TestResolvePlanEmptyBatch(t *testing.T) {
	_, err := ResolvePlan(PlanRequest{Table: "budgets", Mode: ModeAppend, RowCount: 0})
	if err == nil {
		t.Error("empty batch accepted")
	}
}

func TestResolvePlanUnknownTable(t *testing.T) {
	_, err := ResolvePlan(PlanRequest{Table: "payroll", Mode: ModeAppend, RowCount: 1})
	if err == nil {
		t.Error("unknown table accepted")
	}
}

func TestResolvePlanReplaceYear(t *testing.T) {
	plan, err := ResolvePlan(PlanRequest{
		Table: "actuals", Mode: ModeReplaceYear,
		TargetYear: 2027, ConfirmYear: 2027,
		RowCount: 5, YearsInData: []int{2027},
	})
	if err != nil {
		t.Fatalf("replace_year rejected: %v", err)
	}
	if plan.DeleteYear != 2027 || plan.DeleteAll {
		t.Errorf("plan = %+v, want DeleteYear 2027", plan)
	}
}

func TestResolvePlanReplaceYearMixedYears(t *testing.T) {
	_, err := ResolvePlan(PlanRequest{
		Table: "actuals", Mode: ModeReplaceYear,
		TargetYear: 2027, ConfirmYear: 2027,
		RowCount: 5, YearsInData: []int{2027, 2028},
	})
	if err == nil {
		t.Fatal("mixed-year batch accepted")
	}
	// The rejection names every year present, including the one matching the
	// target.
	for _, y := range []string{"2027", "2028"} {
		if !strings.Contains(err.Error(), y) {
			t.Errorf("rejection %q does not name year %s", err.Error(), y)
		}
	}
}

func TestResolvePlanReplaceYearWrongYear(t *testing.T) {
	_, err := ResolvePlan(PlanRequest{
		Table: "actuals", Mode: ModeReplaceYear,
		TargetYear: 2027, ConfirmYear: 2027,
		RowCount: 5, YearsInData: []int{2028},
	})
	if err == nil {
		t.Error("batch for a different year accepted")
	}
}

func TestResolvePlanReplaceYearConfirmationMismatch(t *testing.T) {
	_, err := ResolvePlan(PlanRequest{
		Table: "actuals", Mode: ModeReplaceYear,
		TargetYear: 2027, ConfirmYear: 2028,
		RowCount: 5, YearsInData: []int{2027},
	})
	if err == nil {
		t.Error("mismatched confirmation year accepted")
	}
}

func TestResolvePlanReplaceTable(t *testing.T) {
	_, err := ResolvePlan(PlanRequest{
		Table: "transactions", Mode: ModeReplaceTable,
		RowCount: 5, YearsInData: []int{2027},
	})
	if err == nil {
		t.Error("replace_table without confirmation accepted")
	}

	plan, err := ResolvePlan(PlanRequest{
		Table: "transactions", Mode: ModeReplaceTable, ConfirmReplaceAll: true,
		RowCount: 5, YearsInData: []int{2027},
	})
	if err != nil {
		t.Fatalf("confirmed replace_table rejected: %v", err)
	}
	if !plan.DeleteAll {
		t.Errorf("plan = %+v, want DeleteAll", plan)
	}
}

func TestParseMode(t *testing.T) {
	for _, ok := range []string{"append", "replace_year", "replace_table", " APPEND "} {
		if _, err := ParseMode(ok); err != nil {
			t.Errorf("ParseMode(%q) rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "overwrite", "replace"} {
		if _, err := ParseMode(bad); err == nil {
			t.Errorf("ParseMode(%q) accepted", bad)
		}
	}
}

func TestParseTargetYear(t *testing.T) {
	if y, err := ParseTargetYear(" 2027 "); err != nil || y != 2027 {
		t.Errorf("ParseTargetYear(2027) = %d, %v", y, err)
	}
	for _, bad := range []string{"", "abc", "1999", "2101"} {
		if _, err := ParseTargetYear(bad); err == nil {
			t.Errorf("ParseTargetYear(%q) accepted", bad)
		}
	}
}
