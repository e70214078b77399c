package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"CiviPortal/api"
	"CiviPortal/api/admin/settings"
	"CiviPortal/api/constants"
	"CiviPortal/internal/fiscal"
	"CiviPortal/internal/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// finalTables maps an upload table name to its destination table.
var finalTables = map[string]string{
	TableBudgets:      "budget_rows",
	TableActuals:      "actual_rows",
	TableTransactions: "transaction_rows",
	TableRevenues:     "revenue_rows",
}

var stagingColumns = []string{
	"batch_id", "tenant_id", "table_name", "fiscal_year", "fiscal_period",
	"period", "txn_date", "fund", "department_name", "category", "account",
	"source", "vendor", "description", "amount",
}

// insertSelects move staged rows into their final table in one statement,
// inside the same transaction as the preceding bulk delete.
var insertSelects = map[string]string{
	TableBudgets: `
		INSERT INTO budget_rows (tenant_id, fiscal_year, fund, department_name, category, account, amount)
		SELECT tenant_id, fiscal_year, fund, department_name, category, account, amount
		FROM staging_financial_rows WHERE batch_id = $1`,
	TableActuals: `
		INSERT INTO actual_rows (tenant_id, fiscal_year, fiscal_period, period, department_name, category, amount)
		SELECT tenant_id, fiscal_year, fiscal_period, period, department_name, category, amount
		FROM staging_financial_rows WHERE batch_id = $1`,
	TableTransactions: `
		INSERT INTO transaction_rows (tenant_id, txn_date, fiscal_year, fiscal_period, vendor, department_name, description, amount)
		SELECT tenant_id, txn_date, fiscal_year, fiscal_period, vendor, department_name, description, amount
		FROM staging_financial_rows WHERE batch_id = $1`,
	TableRevenues: `
		INSERT INTO revenue_rows (tenant_id, fiscal_year, fiscal_period, period, department_name, source, amount)
		SELECT tenant_id, fiscal_year, fiscal_period, period, department_name, source, amount
		FROM staging_financial_rows WHERE batch_id = $1`,
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func stagingRow(batchID, tenantID, table string, rec Record) []interface{} {
	return []interface{}{
		batchID,
		tenantID,
		table,
		rec.FiscalYear,
		rec.FiscalPeriod,
		nullable(rec.Period),
		nullable(rec.Date),
		nullable(rec.Fund),
		nullable(rec.DepartmentName),
		nullable(rec.Category),
		nullable(rec.Account),
		nullable(rec.Source),
		nullable(rec.Vendor),
		nullable(rec.Description),
		// String, not float64: NUMERIC(16,2) holds values a float64 cannot
		// represent exactly.
		rec.Amount.String(),
	}
}

// resolveFiscalConfig picks the calendar a batch is validated against. A
// missing settings row means the tenant never changed the default; any
// other load failure must block the upload, or rows would be written with
// fiscal years derived from the wrong calendar.
func resolveFiscalConfig(s *settings.PortalSettings, err error) (fiscal.Config, string) {
	switch {
	case err == nil:
		return s.FiscalConfig(), ""
	case errors.Is(err, pgx.ErrNoRows):
		return fiscal.DefaultConfig(), ""
	default:
		return fiscal.Config{}, constants.ErrSettingsLoadFailed
	}
}

// parseBatch reads the multipart form and validates the uploaded file
// against the requested table's schema. Shared by the upload and dry-run
// endpoints.
func parseBatch(r *http.Request, pool *pgxpool.Pool) (schema *TableSchema, result BatchResult, cfg fiscal.Config, errMsg string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, BatchResult{}, cfg, constants.ErrFailedToParseMultipartForm
	}

	table := r.FormValue(constants.KeyTable)
	schema = SchemaFor(table)
	if schema == nil {
		return nil, BatchResult{}, cfg, constants.ErrUnknownUploadTable
	}

	var file multipart.File
	var ext string
	for _, files := range r.MultipartForm.File {
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			file = f
			ext = FileExt(fh.Filename)
			break
		}
		if file != nil {
			break
		}
	}
	if file == nil {
		return nil, BatchResult{}, cfg, constants.ErrUploadFileRequired
	}
	defer file.Close()

	records, err := ParseUploadFile(file, ext)
	if err != nil {
		return nil, BatchResult{}, cfg, err.Error()
	}
	headers, rows, err := SplitHeaderRows(records)
	if err != nil {
		return nil, BatchResult{}, cfg, err.Error()
	}

	tenantID := api.TenantIDFromCtx(r.Context())
	s, loadErr := settings.Load(r.Context(), pool, tenantID)
	cfg, cfgErr := resolveFiscalConfig(s, loadErr)
	if cfgErr != "" {
		api.LogError("settings load failed for tenant %s: %v", tenantID, loadErr)
		return nil, BatchResult{}, cfg, cfgErr
	}

	result = ValidateAndBuildRecords(schema, headers, rows, cfg)
	return schema, result, cfg, ""
}

// Handler: ValidateUpload is the dry-run endpoint: it validates the file and
// returns issues and years without touching the database.
func ValidateUpload(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, result, _, errMsg := parseBatch(r, pool)
		if errMsg != "" {
			api.RespondWithError(w, http.StatusBadRequest, errMsg)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: !result.Blocked(),
			"row_count":            len(result.Records),
			"years_in_data":        result.YearsInData,
			"issues":               result.Issues,
		})
	}
}

// Handler: UploadFile validates the file, resolves the write plan and
// executes it as a staged swap: rows are bulk-copied into the staging table
// under a fresh batch id, then the plan's delete and the final insert run in
// one transaction. A replace can therefore never leave the table
// half-updated.
func UploadFile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tenantID := api.TenantIDFromCtx(ctx)

		schema, result, _, errMsg := parseBatch(r, pool)
		if errMsg != "" {
			api.RespondWithError(w, http.StatusBadRequest, errMsg)
			return
		}

		if result.Blocked() {
			w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
			json.NewEncoder(w).Encode(map[string]interface{}{
				constants.ValueSuccess: false,
				constants.ValueError:   constants.ErrUploadBlocked,
				"issues":               result.Issues,
				"years_in_data":        result.YearsInData,
			})
			return
		}

		mode, err := ParseMode(r.FormValue(constants.KeyMode))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		planReq := PlanRequest{
			Table:             schema.Name,
			Mode:              mode,
			ConfirmReplaceAll: r.FormValue(constants.KeyConfirmAll) == "true",
			RowCount:          len(result.Records),
			YearsInData:       result.YearsInData,
		}
		if mode == ModeReplaceYear {
			target, err := ParseTargetYear(r.FormValue(constants.KeyReplaceYear))
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrReplaceYearRequired)
				return
			}
			confirm, err := ParseTargetYear(r.FormValue(constants.KeyConfirmYear))
			if err != nil {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrReplaceYearRequired)
				return
			}
			planReq.TargetYear = target
			planReq.ConfirmYear = confirm
		}

		plan, err := ResolvePlan(planReq)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		inserted, deleted, err := executePlan(ctx, pool, tenantID, plan, result.Records,
			api.RequestedByFromCtx(ctx, ""))
		if err != nil {
			api.LogError("upload failed for tenant %s table %s: %v", tenantID, schema.Name, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToSave)
			return
		}

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"table":                schema.Name,
			"mode":                 string(plan.Mode),
			"inserted":             inserted,
			"deleted":              deleted,
			"years_in_data":        result.YearsInData,
			"issues":               result.Issues,
		})
	}
}

// executePlan stages the batch with CopyFrom, then runs delete + insert +
// audit log in a single transaction. The staging rows are removed on the way
// out regardless of outcome.
func executePlan(ctx context.Context, pool *pgxpool.Pool, tenantID string, plan WritePlan, records []Record, requestedBy string) (inserted, deleted int64, err error) {
	batchID := uuid.New().String()

	copyRows := make([][]interface{}, len(records))
	for i, rec := range records {
		copyRows[i] = stagingRow(batchID, tenantID, plan.Table, rec)
	}
	if _, err = pool.CopyFrom(
		ctx,
		pgx.Identifier{"staging_financial_rows"},
		stagingColumns,
		pgx.CopyFromRows(copyRows),
	); err != nil {
		return 0, 0, fmt.Errorf("staging copy failed: %w", err)
	}
	// Staged rows for this batch are transient; clear them whether or not
	// the swap commits.
	defer pool.Exec(context.Background(),
		`DELETE FROM staging_financial_rows WHERE batch_id = $1`, batchID)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf(constants.ErrTxStartFailed+"%w", err)
	}
	defer tx.Rollback(ctx)

	final := finalTables[plan.Table]
	if plan.DeleteAll {
		tag, derr := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1`, final), tenantID)
		if derr != nil {
			return 0, 0, fmt.Errorf("bulk delete failed: %w", derr)
		}
		deleted = tag.RowsAffected()
	} else if plan.DeleteYear != 0 {
		tag, derr := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND fiscal_year = $2`, final),
			tenantID, plan.DeleteYear)
		if derr != nil {
			return 0, 0, fmt.Errorf("fiscal year delete failed: %w", derr)
		}
		deleted = tag.RowsAffected()
	}

	tag, err := tx.Exec(ctx, insertSelects[plan.Table], batchID)
	if err != nil {
		return 0, 0, fmt.Errorf("final insert failed: %w", err)
	}
	inserted = tag.RowsAffected()
	if inserted == 0 {
		return 0, 0, fmt.Errorf("no staged rows found for batch %s", batchID)
	}

	var logYear interface{}
	if plan.DeleteYear != 0 {
		logYear = plan.DeleteYear
	}
	if _, err = tx.Exec(ctx, `
		INSERT INTO upload_logs (tenant_id, table_name, mode, row_count, fiscal_year, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		tenantID, plan.Table, string(plan.Mode), inserted, logYear, requestedBy,
	); err != nil {
		return 0, 0, fmt.Errorf("upload log insert failed: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf(constants.ErrCommitFailed+"%w", err)
	}
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogUpload(tenantID, plan.Table, string(plan.Mode), int(inserted))
	}
	return inserted, deleted, nil
}
