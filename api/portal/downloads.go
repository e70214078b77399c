package portal

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"
	"CiviPortal/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

type exportSpec struct {
	module  string
	headers []string
	query   string
}

// Export queries read ::text throughout so rows stream straight into the
// CSV/XLSX writers without type juggling.
var exports = map[string]exportSpec{
	"budgets": {
		module:  "",
		headers: []string{"fiscal_year", "fund", "department_name", "category", "account", "amount"},
		query: `SELECT fiscal_year::text, COALESCE(fund,''), department_name, COALESCE(category,''),
		               COALESCE(account,''), amount::text
		        FROM budget_rows
		        WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)
		        ORDER BY fiscal_year, department_name LIMIT $3 OFFSET $4`,
	},
	"actuals": {
		module:  "actuals",
		headers: []string{"fiscal_year", "period", "department_name", "category", "amount"},
		query: `SELECT fiscal_year::text, period, department_name, COALESCE(category,''), amount::text
		        FROM actual_rows
		        WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)
		        ORDER BY period, department_name LIMIT $3 OFFSET $4`,
	},
	"transactions": {
		module:  "transactions",
		headers: []string{"date", "vendor", "department_name", "description", "amount"},
		query: `SELECT txn_date::text, COALESCE(vendor,''), COALESCE(department_name,''),
		               description, amount::text
		        FROM transaction_rows
		        WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)
		        ORDER BY txn_date, id LIMIT $3 OFFSET $4`,
	},
	"revenues": {
		module:  "revenues",
		headers: []string{"fiscal_year", "period", "department_name", "source", "amount"},
		query: `SELECT fiscal_year::text, period, department_name, COALESCE(source,''), amount::text
		        FROM revenue_rows
		        WHERE tenant_id = $1 AND ($2 = 0 OR fiscal_year = $2)
		        ORDER BY period, department_name LIMIT $3 OFFSET $4`,
	},
}

// exportBatches reads an export query in fixed-size pages, handing each
// batch of string rows to emit.
func exportBatches(ctx context.Context, pool *pgxpool.Pool, spec exportSpec, tenantID string, year int, emit func([]string) error) error {
	width := len(spec.headers)
	for offset := 0; ; offset += config.BatchSize {
		rows, err := pool.Query(ctx, spec.query, tenantID, year, config.BatchSize, offset)
		if err != nil {
			return err
		}
		count := 0
		for rows.Next() {
			record := make([]string, width)
			dest := make([]interface{}, width)
			for i := range record {
				dest[i] = &record[i]
			}
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return err
			}
			if err := emit(record); err != nil {
				rows.Close()
				return err
			}
			count++
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if count < config.BatchSize {
			return nil
		}
	}
}

// Download serves one table as a file: ?table=budgets&format=csv|xlsx, with
// the usual year filter (year=0 or absent exports everything).
func Download(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := middlewares.SettingsFromCtx(ctx)
		tenantID := api.TenantIDFromCtx(ctx)

		table := r.URL.Query().Get("table")
		spec, ok := exports[table]
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnknownUploadTable)
			return
		}
		if spec.module != "" && !s.ModuleEnabled(spec.module) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrModuleDisabled)
			return
		}

		// Unlike the dashboard pages, the download center defaults to the
		// whole table rather than the latest year.
		year := 0
		if r.URL.Query().Get("year") != "" {
			year = queryYear(ctx, pool, r, tenantID, s)
		}

		format := r.URL.Query().Get("format")
		switch format {
		case "", "csv":
			streamCSV(w, r, pool, spec, tenantID, table, year)
		case "xlsx":
			streamXLSX(w, r, pool, spec, tenantID, table, year)
		default:
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnsupportedFileType)
		}
	}
}

func streamCSV(w http.ResponseWriter, r *http.Request, pool *pgxpool.Pool, spec exportSpec, tenantID, table string, year int) {
	w.Header().Set(constants.ContentTypeText, "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", table))

	cw := csv.NewWriter(w)
	if err := cw.Write(spec.headers); err != nil {
		return
	}
	err := exportBatches(r.Context(), pool, spec, tenantID, year, cw.Write)
	if err != nil {
		api.LogError("csv export of %s failed for tenant %s: %v", table, tenantID, err)
		return
	}
	cw.Flush()
}

func streamXLSX(w http.ResponseWriter, r *http.Request, pool *pgxpool.Pool, spec exportSpec, tenantID, table string, year int) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerRow := make([]interface{}, len(spec.headers))
	for i, h := range spec.headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
		return
	}

	rowNum := 2
	err := exportBatches(r.Context(), pool, spec, tenantID, year, func(record []string) error {
		cells := make([]interface{}, len(record))
		for i, v := range record {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		rowNum++
		return f.SetSheetRow(sheet, cell, &cells)
	})
	if err != nil {
		api.LogError("xlsx export of %s failed for tenant %s: %v", table, tenantID, err)
		api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToLoad)
		return
	}

	w.Header().Set(constants.ContentTypeText, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", table))
	if err := f.Write(w); err != nil {
		api.LogError("xlsx write of %s failed for tenant %s: %v", table, tenantID, err)
	}
}
