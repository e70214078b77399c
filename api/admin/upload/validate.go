package upload

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"CiviPortal/api/constants"
	"CiviPortal/internal/fiscal"

	"github.com/shopspring/decimal"
)

// Issue severities. Informational issues are surfaced to the operator but do
// not block the batch.
const (
	SeverityError = "error"
	SeverityInfo  = "info"
)

// Issue is one human-readable validation finding. Row is the 1-based data
// row number, nil for header-level findings; Field is empty when the finding
// spans the whole row or file.
type Issue struct {
	Row      *int   `json:"row"`
	Field    string `json:"field,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BatchResult is the outcome of validating one uploaded file. YearsInData is
// the sorted set of distinct fiscal years found in the batch; it drives the
// replace-year admissibility check.
type BatchResult struct {
	Records     []Record `json:"records"`
	YearsInData []int    `json:"years_in_data"`
	Issues      []Issue  `json:"issues"`
}

// Blocked reports whether the batch must not be written.
func (b *BatchResult) Blocked() bool {
	for _, is := range b.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

func headerIssue(field, msg string) Issue {
	return Issue{Field: field, Severity: SeverityError, Message: msg}
}

func infoIssue(msg string) Issue {
	return Issue{Severity: SeverityInfo, Message: msg}
}

func rowIssue(row int, field, msg string) Issue {
	r := row
	return Issue{Row: &r, Field: field, Severity: SeverityError, Message: msg}
}

// ValidateAndBuildRecords turns raw header+rows into typed records, checking
// the table schema and collecting every issue rather than halting on the
// first. It is pure: the same input always yields the same records, years
// and issues.
func ValidateAndBuildRecords(schema *TableSchema, headers []string, rows [][]string, cfg fiscal.Config) BatchResult {
	res := BatchResult{YearsInData: []int{}}

	norm := NormalizeHeaders(headers)

	// 1. Duplicate header names.
	seen := map[string]int{}
	for _, h := range norm {
		if h == "" {
			continue
		}
		seen[h]++
	}
	dups := make([]string, 0)
	for h, n := range seen {
		if n > 1 {
			dups = append(dups, h)
		}
	}
	sort.Strings(dups)
	for _, h := range dups {
		res.Issues = append(res.Issues, headerIssue(h, fmt.Sprintf("duplicate column %q in header", h)))
	}

	// 2. Missing required columns, reported together.
	colIdx := map[string]int{}
	for i, h := range norm {
		if _, ok := colIdx[h]; !ok {
			colIdx[h] = i
		}
	}
	missing := make([]string, 0)
	for _, req := range schema.Required {
		if _, ok := colIdx[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		res.Issues = append(res.Issues, headerIssue("",
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))))
	}

	// 3. Unrecognized extra columns are reported but do not block the file.
	extras := make([]string, 0)
	for _, h := range norm {
		if h != "" && !schema.Recognized(h) {
			extras = append(extras, h)
		}
	}
	if len(extras) > 0 {
		res.Issues = append(res.Issues, infoIssue(
			fmt.Sprintf("ignored unrecognized columns: %s", strings.Join(extras, ", "))))
	}

	// Row checks need the required columns in place.
	if len(missing) > 0 {
		return res
	}

	cell := func(row []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	yearSet := map[int]bool{}
	for i, row := range rows {
		rowNum := i + 1
		rowOK := true
		var rec Record

		// 4. Declared numeric columns must parse to a finite number.
		amounts := map[string]decimal.Decimal{}
		for col := range schema.Numeric {
			raw := cell(row, col)
			d, err := parseNumeric(raw)
			if err != nil {
				res.Issues = append(res.Issues, rowIssue(rowNum, col,
					fmt.Sprintf("%q is not a number", raw)))
				rowOK = false
				continue
			}
			amounts[col] = d
		}

		// 5. Table-specific required fields.
		switch schema.Name {
		case TableBudgets:
			if ok := checkDepartment(&res, rowNum, cell(row, "department_name")); !ok {
				rowOK = false
			} else {
				rec.DepartmentName = cell(row, "department_name")
			}
			if fy, ok := amounts["fiscal_year"]; ok {
				year, err := fiscalYearFromDecimal(fy)
				if err != nil {
					res.Issues = append(res.Issues, rowIssue(rowNum, "fiscal_year", err.Error()))
					rowOK = false
				} else {
					rec.FiscalYear = year
				}
			}
			rec.Fund = cell(row, "fund")
			rec.Category = cell(row, "category")
			rec.Account = cell(row, "account")

		case TableActuals, TableRevenues:
			if ok := checkDepartment(&res, rowNum, cell(row, "department_name")); !ok {
				rowOK = false
			} else {
				rec.DepartmentName = cell(row, "department_name")
			}
			raw := cell(row, "period")
			calYear, calMonth, normPeriod, err := fiscal.ParsePeriod(raw)
			if err != nil {
				res.Issues = append(res.Issues, rowIssue(rowNum, "period", err.Error()))
				rowOK = false
			} else {
				rec.Period = normPeriod
				rec.FiscalYear = cfg.YearForMonth(calYear, calMonth)
				rec.FiscalPeriod = cfg.PeriodForMonth(calMonth)
				if outOfBounds(rec.FiscalYear) {
					res.Issues = append(res.Issues, rowIssue(rowNum, "period",
						fmt.Sprintf("period %q maps to fiscal year %d, outside %d-%d",
							raw, rec.FiscalYear, constants.MinFiscalYear, constants.MaxFiscalYear)))
					rowOK = false
				}
			}
			rec.Fund = cell(row, "fund")
			rec.Category = cell(row, "category")
			if schema.Name == TableRevenues {
				rec.Source = cell(row, "source")
			}

		case TableTransactions:
			raw := cell(row, "date")
			t, err := fiscal.ParseDate(raw)
			if err != nil {
				res.Issues = append(res.Issues, rowIssue(rowNum, "date", err.Error()))
				rowOK = false
			} else {
				rec.Date = raw
				rec.FiscalYear = cfg.YearForDate(t)
				rec.FiscalPeriod = cfg.PeriodForDate(t)
				if outOfBounds(rec.FiscalYear) {
					res.Issues = append(res.Issues, rowIssue(rowNum, "date",
						fmt.Sprintf("date %q maps to fiscal year %d, outside %d-%d",
							raw, rec.FiscalYear, constants.MinFiscalYear, constants.MaxFiscalYear)))
					rowOK = false
				}
			}
			desc := cell(row, "description")
			if IsBlankValue(desc) {
				res.Issues = append(res.Issues, rowIssue(rowNum, "description",
					"description must not be blank"))
				rowOK = false
			} else {
				rec.Description = desc
			}
			rec.Vendor = cell(row, "vendor")
			rec.DepartmentName = cell(row, "department_name")
			rec.Category = cell(row, "category")
		}

		// 7. Amounts are never negative.
		if amt, ok := amounts["amount"]; ok {
			if amt.IsNegative() {
				res.Issues = append(res.Issues, rowIssue(rowNum, "amount",
					fmt.Sprintf("amount %s is negative", amt.String())))
				rowOK = false
			} else {
				rec.Amount = amt
			}
		}

		if rowOK {
			res.Records = append(res.Records, rec)
			yearSet[rec.FiscalYear] = true
		}
	}

	for y := range yearSet {
		res.YearsInData = append(res.YearsInData, y)
	}
	sort.Ints(res.YearsInData)
	return res
}

// checkDepartment enforces the non-blank department rule shared by budgets,
// actuals and revenues.
func checkDepartment(res *BatchResult, rowNum int, val string) bool {
	if IsBlankValue(val) {
		res.Issues = append(res.Issues, rowIssue(rowNum, "department_name",
			"department_name must not be blank"))
		return false
	}
	return true
}

// parseNumeric strips currency formatting ($, thousands separators) and
// parses the remainder as a decimal.
func parseNumeric(raw string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(raw, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	return decimal.NewFromString(clean)
}

// fiscalYearFromDecimal converts a parsed fiscal_year cell into a bounded
// integer year.
func fiscalYearFromDecimal(d decimal.Decimal) (int, error) {
	if !d.IsInteger() {
		return 0, fmt.Errorf("fiscal_year %s is not an integer", d.String())
	}
	year := int(d.IntPart())
	if outOfBounds(year) {
		return 0, fmt.Errorf("fiscal_year %d is outside %d-%d",
			year, constants.MinFiscalYear, constants.MaxFiscalYear)
	}
	return year, nil
}

func outOfBounds(year int) bool {
	return year < constants.MinFiscalYear || year > constants.MaxFiscalYear
}

// ParseTargetYear parses an operator-entered fiscal year with the same
// bounds applied to file data.
func ParseTargetYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || outOfBounds(year) {
		return 0, errors.New(constants.ErrInvalidYear)
	}
	return year, nil
}
