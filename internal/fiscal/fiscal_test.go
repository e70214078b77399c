package fiscal

import (
	"testing"
	"time"
)

func TestYearForMonth(t *testing.T) {
	julyStart := DefaultConfig()

	tests := []struct {
		name  string
		cfg   Config
		year  int
		month time.Month
		want  int
	}{
		{"august after july start", julyStart, 2027, time.August, 2028},
		{"june before july start", julyStart, 2027, time.June, 2027},
		{"start month itself", julyStart, 2027, time.July, 2028},
		{"december", julyStart, 2027, time.December, 2028},
		{"january", julyStart, 2027, time.January, 2027},
		{"calendar year city", Config{StartMonth: time.January, StartDay: 1}, 2027, time.March, 2027},
		{"calendar year december", Config{StartMonth: time.January, StartDay: 1}, 2027, time.December, 2027},
		{"october start", Config{StartMonth: time.October, StartDay: 1}, 2026, time.September, 2026},
		{"october start at boundary", Config{StartMonth: time.October, StartDay: 1}, 2026, time.October, 2027},
		{"label by start year", Config{StartMonth: time.July, StartDay: 1, LabelByStartYear: true}, 2027, time.August, 2027},
		{"label by start year before start", Config{StartMonth: time.July, StartDay: 1, LabelByStartYear: true}, 2027, time.June, 2026},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.YearForMonth(tt.year, tt.month); got != tt.want {
				t.Errorf("YearForMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestYearForMonthMonotonic(t *testing.T) {
	// Walking month by month through any fiscal window must never decrease
	// the fiscal year, and the month before the start must sit one year
	// behind the start month.
	for sm := time.January; sm <= time.December; sm++ {
		cfg := Config{StartMonth: sm, StartDay: 1}
		prev := cfg.YearForMonth(2026, time.January)
		for m := time.February; m <= time.December; m++ {
			cur := cfg.YearForMonth(2026, m)
			if cur < prev {
				t.Fatalf("start=%s: fiscal year decreased at %s (%d -> %d)", sm, m, prev, cur)
			}
			prev = cur
		}
		if sm != time.January {
			before := cfg.YearForMonth(2026, sm-1)
			atStart := cfg.YearForMonth(2026, sm)
			if atStart != before+1 {
				t.Errorf("start=%s: month before start = FY%d, start month = FY%d, want +1", sm, before, atStart)
			}
		}
	}
}

func TestYearForDate(t *testing.T) {
	cfg := DefaultConfig()
	june30 := time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)
	july1 := time.Date(2027, time.July, 1, 0, 0, 0, 0, time.UTC)
	if got := cfg.YearForDate(june30); got != 2027 {
		t.Errorf("June 30 2027 = FY%d, want FY2027", got)
	}
	if got := cfg.YearForDate(july1); got != 2028 {
		t.Errorf("July 1 2027 = FY%d, want FY2028", got)
	}

	// Mid-month start: the start day matters for dates.
	cfg = Config{StartMonth: time.July, StartDay: 15}
	july14 := time.Date(2027, time.July, 14, 0, 0, 0, 0, time.UTC)
	july15 := time.Date(2027, time.July, 15, 0, 0, 0, 0, time.UTC)
	if got := cfg.YearForDate(july14); got != 2027 {
		t.Errorf("July 14 with day-15 start = FY%d, want FY2027", got)
	}
	if got := cfg.YearForDate(july15); got != 2028 {
		t.Errorf("July 15 with day-15 start = FY%d, want FY2028", got)
	}
}

func TestPeriodForMonth(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		month time.Month
		want  int
	}{
		{time.July, 1},
		{time.August, 2},
		{time.December, 6},
		{time.January, 7},
		{time.June, 12},
	}
	for _, tt := range tests {
		if got := cfg.PeriodForMonth(tt.month); got != tt.want {
			t.Errorf("PeriodForMonth(%s) = %d, want %d", tt.month, got, tt.want)
		}
	}

	jan := Config{StartMonth: time.January, StartDay: 1}
	if got := jan.PeriodForMonth(time.January); got != 1 {
		t.Errorf("january start: PeriodForMonth(January) = %d, want 1", got)
	}
	if got := jan.PeriodForMonth(time.December); got != 12 {
		t.Errorf("january start: PeriodForMonth(December) = %d, want 12", got)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in       string
		wantYear int
		wantMon  time.Month
		wantNorm string
		wantErr  bool
	}{
		{"2027-08", 2027, time.August, "2027-08", false},
		{"2027-8", 2027, time.August, "2027-08", false},
		{" 2027-12 ", 2027, time.December, "2027-12", false},
		{"2027-13", 0, 0, "", true},
		{"2027-00", 0, 0, "", true},
		{"2027", 0, 0, "", true},
		{"27-08", 0, 0, "", true},
		{"abcd-08", 0, 0, "", true},
		{"2027-xy", 0, 0, "", true},
		{"2027-123", 0, 0, "", true},
		{"", 0, 0, "", true},
	}
	for _, tt := range tests {
		y, m, norm, err := ParsePeriod(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q): expected error, got %d-%d", tt.in, y, m)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q): unexpected error %v", tt.in, err)
			continue
		}
		if y != tt.wantYear || m != tt.wantMon || norm != tt.wantNorm {
			t.Errorf("ParsePeriod(%q) = (%d, %s, %q), want (%d, %s, %q)",
				tt.in, y, m, norm, tt.wantYear, tt.wantMon, tt.wantNorm)
		}
	}
}

func TestParsePeriodPaddingEquivalence(t *testing.T) {
	_, _, padded, err := ParsePeriod("2027-8")
	if err != nil {
		t.Fatalf("ParsePeriod(2027-8): %v", err)
	}
	_, _, already, err := ParsePeriod("2027-08")
	if err != nil {
		t.Fatalf("ParsePeriod(2027-08): %v", err)
	}
	if padded != already {
		t.Errorf("padded %q != already-normalized %q", padded, already)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-02-29", false}, // leap day
		{"2023-02-29", true},
		{"2024-02-30", true}, // must not auto-correct to March
		{"2024-13-01", true},
		{"2024-1-01", true}, // not zero padded
		{"2024-01-1", true},
		{"01/02/2024", true},
		{"2024-06-30", false},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
