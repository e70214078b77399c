package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"CiviPortal/api"
	"CiviPortal/api/constants"
	"CiviPortal/internal/fiscal"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PortalSettings is the singleton-per-tenant configuration read by nearly
// every portal page.
type PortalSettings struct {
	TenantID           string `json:"tenant_id"`
	CityName           string `json:"city_name"`
	Tagline            string `json:"tagline"`
	LogoURL            string `json:"logo_url"`
	PrimaryColor       string `json:"primary_color"`
	AccentColor        string `json:"accent_color"`
	ContactEmail       string `json:"contact_email"`
	EnableActuals      bool   `json:"enable_actuals"`
	EnableTransactions bool   `json:"enable_transactions"`
	EnableVendors      bool   `json:"enable_vendors"`
	EnableRevenues     bool   `json:"enable_revenues"`
	IsPublished        bool   `json:"is_published"`
	FiscalStartMonth   int    `json:"fiscal_year_start_month"`
	FiscalStartDay     int    `json:"fiscal_year_start_day"`
	FYLabelByStartYear bool   `json:"fy_label_by_start_year"`
}

// FiscalConfig converts the stored start fields into a fiscal calendar.
func (s *PortalSettings) FiscalConfig() fiscal.Config {
	cfg := fiscal.DefaultConfig()
	if fiscal.ValidStart(s.FiscalStartMonth, s.FiscalStartDay) {
		cfg.StartMonth = time.Month(s.FiscalStartMonth)
		cfg.StartDay = s.FiscalStartDay
	}
	cfg.LabelByStartYear = s.FYLabelByStartYear
	return cfg
}

// ModuleEnabled maps a portal section name to its enable flag. Unknown
// sections (overview, departments, analytics, downloads) are always on.
func (s *PortalSettings) ModuleEnabled(section string) bool {
	switch section {
	case "actuals", "analytics-actuals":
		return s.EnableActuals
	case "transactions":
		return s.EnableTransactions
	case "vendors":
		return s.EnableVendors
	case "revenues":
		return s.EnableRevenues
	}
	return true
}

const selectColumns = `
	tenant_id, city_name, COALESCE(tagline,''), COALESCE(logo_url,''),
	COALESCE(primary_color,''), COALESCE(accent_color,''), COALESCE(contact_email,''),
	enable_actuals, enable_transactions, enable_vendors, enable_revenues,
	is_published, fiscal_year_start_month, fiscal_year_start_day, fy_label_by_start_year`

// Load reads the settings row for a tenant.
func Load(ctx context.Context, pool *pgxpool.Pool, tenantID string) (*PortalSettings, error) {
	var s PortalSettings
	err := pool.QueryRow(ctx,
		`SELECT`+selectColumns+` FROM portal_settings WHERE tenant_id = $1`, tenantID,
	).Scan(
		&s.TenantID, &s.CityName, &s.Tagline, &s.LogoURL,
		&s.PrimaryColor, &s.AccentColor, &s.ContactEmail,
		&s.EnableActuals, &s.EnableTransactions, &s.EnableVendors, &s.EnableRevenues,
		&s.IsPublished, &s.FiscalStartMonth, &s.FiscalStartDay, &s.FYLabelByStartYear,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadBySlug resolves a tenant by its public slug and loads its settings.
func LoadBySlug(ctx context.Context, pool *pgxpool.Pool, slug string) (*PortalSettings, error) {
	var tenantID string
	err := pool.QueryRow(ctx, `SELECT id FROM tenants WHERE slug = $1`, slug).Scan(&tenantID)
	if err != nil {
		return nil, err
	}
	return Load(ctx, pool, tenantID)
}

// Handler: GetSettings returns the caller tenant's settings.
func GetSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := api.TenantIDFromCtx(r.Context())
		s, err := Load(r.Context(), pool, tenantID)
		if err != nil {
			api.LogError("settings load failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrSettingsLoadFailed)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			constants.ValueSuccess: true,
			"settings":             s,
		})
	}
}

// Handler: UpdateSettings upserts branding, module flags, publish status and
// the fiscal year start for the caller's tenant.
func UpdateSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := api.TenantIDFromCtx(r.Context())
		var req PortalSettings
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		if !fiscal.ValidStart(req.FiscalStartMonth, req.FiscalStartDay) {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidFiscalStart)
			return
		}

		userID := ""
		if s := api.SessionFromCtx(r.Context()); s != nil {
			userID = s.UserID
		}
		_, err := pool.Exec(r.Context(), `
			INSERT INTO portal_settings (
				tenant_id, city_name, tagline, logo_url, primary_color, accent_color,
				contact_email, enable_actuals, enable_transactions, enable_vendors,
				enable_revenues, is_published, fiscal_year_start_month,
				fiscal_year_start_day, fy_label_by_start_year, updated_by, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,now())
			ON CONFLICT (tenant_id) DO UPDATE SET
				city_name = EXCLUDED.city_name,
				tagline = EXCLUDED.tagline,
				logo_url = EXCLUDED.logo_url,
				primary_color = EXCLUDED.primary_color,
				accent_color = EXCLUDED.accent_color,
				contact_email = EXCLUDED.contact_email,
				enable_actuals = EXCLUDED.enable_actuals,
				enable_transactions = EXCLUDED.enable_transactions,
				enable_vendors = EXCLUDED.enable_vendors,
				enable_revenues = EXCLUDED.enable_revenues,
				is_published = EXCLUDED.is_published,
				fiscal_year_start_month = EXCLUDED.fiscal_year_start_month,
				fiscal_year_start_day = EXCLUDED.fiscal_year_start_day,
				fy_label_by_start_year = EXCLUDED.fy_label_by_start_year,
				updated_by = EXCLUDED.updated_by,
				updated_at = now()`,
			tenantID, req.CityName, req.Tagline, req.LogoURL, req.PrimaryColor,
			req.AccentColor, req.ContactEmail, req.EnableActuals, req.EnableTransactions,
			req.EnableVendors, req.EnableRevenues, req.IsPublished,
			req.FiscalStartMonth, req.FiscalStartDay, req.FYLabelByStartYear, userID,
		)
		if err != nil {
			api.LogError("settings save failed for tenant %s: %v", tenantID, err)
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrSettingsSaveFailed)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
