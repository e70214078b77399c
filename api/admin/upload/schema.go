package upload

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Table names accepted by the upload endpoints.
const (
	TableBudgets      = "budgets"
	TableActuals      = "actuals"
	TableTransactions = "transactions"
	TableRevenues     = "revenues"
)

// TableSchema declares the header contract for one upload table.
type TableSchema struct {
	Name string
	// Required column names (normalized form).
	Required []string
	// Optional columns that are recognized and carried through.
	Optional []string
	// Columns that must parse to a finite number.
	Numeric map[string]bool
}

// Recognized reports whether a normalized header belongs to the schema.
func (s *TableSchema) Recognized(col string) bool {
	for _, c := range s.Required {
		if c == col {
			return true
		}
	}
	for _, c := range s.Optional {
		if c == col {
			return true
		}
	}
	return false
}

var schemas = map[string]*TableSchema{
	TableBudgets: {
		Name:     TableBudgets,
		Required: []string{"fiscal_year", "department_name", "amount"},
		Optional: []string{"fund", "category", "account"},
		Numeric:  map[string]bool{"fiscal_year": true, "amount": true},
	},
	TableActuals: {
		Name:     TableActuals,
		Required: []string{"period", "department_name", "amount"},
		Optional: []string{"fund", "category", "fiscal_year"},
		Numeric:  map[string]bool{"amount": true},
	},
	TableTransactions: {
		Name:     TableTransactions,
		Required: []string{"date", "description", "amount"},
		Optional: []string{"vendor", "department_name", "category", "fiscal_year"},
		Numeric:  map[string]bool{"amount": true},
	},
	TableRevenues: {
		Name:     TableRevenues,
		Required: []string{"period", "department_name", "amount"},
		Optional: []string{"source", "category", "fiscal_year"},
		Numeric:  map[string]bool{"amount": true},
	},
}

// SchemaFor returns the schema for an upload table name, or nil.
func SchemaFor(table string) *TableSchema {
	return schemas[strings.ToLower(strings.TrimSpace(table))]
}

// NormalizeHeader maps a raw header cell to its canonical form: trimmed of
// whitespace, quotes and stray separators, lower-cased, spaces to
// underscores.
func NormalizeHeader(h string) string {
	hn := strings.TrimSpace(h)
	hn = strings.Trim(hn, ", \t\n\r")
	hn = strings.Trim(hn, "'\"`")
	hn = strings.ToLower(hn)
	hn = strings.ReplaceAll(hn, " ", "_")
	return hn
}

// NormalizeHeaders applies NormalizeHeader to a full header row.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// Record is one validated financial row ready for staging. Fields not used
// by a table are left at their zero value (budgets carry no period, actuals
// carry no date).
type Record struct {
	FiscalYear     int             `json:"fiscal_year"`
	FiscalPeriod   int             `json:"fiscal_period,omitempty"`
	Period         string          `json:"period,omitempty"`
	Date           string          `json:"date,omitempty"`
	Fund           string          `json:"fund,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
	Category       string          `json:"category,omitempty"`
	Account        string          `json:"account,omitempty"`
	Source         string          `json:"source,omitempty"`
	Vendor         string          `json:"vendor,omitempty"`
	Description    string          `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
}

// blankValues are the placeholder strings treated as empty for required text
// fields, compared case-insensitively.
var blankValues = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// IsBlankValue reports whether a text cell counts as blank.
func IsBlankValue(s string) bool {
	return blankValues[strings.ToLower(strings.TrimSpace(s))]
}
