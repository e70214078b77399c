package settings

import (
	"testing"
	"time"
)

func TestFiscalConfig(t *testing.T) {
	s := &PortalSettings{FiscalStartMonth: 10, FiscalStartDay: 1}
	cfg := s.FiscalConfig()
	if cfg.StartMonth != time.October || cfg.StartDay != 1 {
		t.Errorf("FiscalConfig = %v/%d, want October/1", cfg.StartMonth, cfg.StartDay)
	}

	// Out-of-range stored values fall back to the July 1 default.
	s = &PortalSettings{FiscalStartMonth: 0, FiscalStartDay: 99}
	cfg = s.FiscalConfig()
	if cfg.StartMonth != time.July || cfg.StartDay != 1 {
		t.Errorf("invalid start fell back to %v/%d, want July/1", cfg.StartMonth, cfg.StartDay)
	}

	s = &PortalSettings{FiscalStartMonth: 7, FiscalStartDay: 1, FYLabelByStartYear: true}
	if !s.FiscalConfig().LabelByStartYear {
		t.Error("LabelByStartYear not carried into fiscal config")
	}
}

func TestModuleEnabled(t *testing.T) {
	s := &PortalSettings{
		EnableActuals:      true,
		EnableTransactions: false,
		EnableVendors:      true,
		EnableRevenues:     false,
	}
	tests := []struct {
		section string
		want    bool
	}{
		{"actuals", true},
		{"transactions", false},
		{"vendors", true},
		{"revenues", false},
		{"overview", true},
		{"departments", true},
		{"downloads", true},
	}
	for _, tt := range tests {
		if got := s.ModuleEnabled(tt.section); got != tt.want {
			t.Errorf("ModuleEnabled(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}
