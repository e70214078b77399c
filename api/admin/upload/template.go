package upload

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/constants"
)

// templateRows maps each table to its template header and one example row.
var templateRows = map[string][][]string{
	TableBudgets: {
		{"fiscal_year", "fund", "department_name", "category", "account", "amount"},
		{"2027", "General Fund", "Fire", "Personnel", "51010", "1250000"},
	},
	TableActuals: {
		{"period", "department_name", "category", "amount"},
		{"2027-08", "Fire", "Personnel", "103500.00"},
	},
	TableTransactions: {
		{"date", "vendor", "department_name", "description", "amount"},
		{"2027-08-15", "Acme Supply Co", "Fire", "Protective equipment", "4821.50"},
	},
	TableRevenues: {
		{"period", "department_name", "source", "amount"},
		{"2027-08", "Finance", "Property Tax", "98000.00"},
	},
}

// TemplateCSV returns the template rows for a table, or nil for an unknown
// table.
func TemplateCSV(table string) [][]string {
	return templateRows[table]
}

// Handler: DownloadTemplate serves a one-example-row CSV template for the
// requested table.
func DownloadTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := r.URL.Query().Get(constants.KeyTable)
		rows := TemplateCSV(table)
		if rows == nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnknownUploadTable)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s_template.csv", table))
		cw := csv.NewWriter(w)
		cw.WriteAll(rows)
		cw.Flush()
	}
}
