package upload

import (
	"reflect"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fiscal Year", "fiscal_year"},
		{"  Department Name  ", "department_name"},
		{`"amount"`, "amount"},
		{"'Period'", "period"},
		{"AMOUNT,", "amount"},
		{"vendor", "vendor"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSchemaFor(t *testing.T) {
	for _, table := range []string{"budgets", "actuals", "transactions", "revenues"} {
		if SchemaFor(table) == nil {
			t.Errorf("SchemaFor(%q) = nil", table)
		}
	}
	if SchemaFor("Budgets ") == nil {
		t.Error("table lookup should be case and whitespace insensitive")
	}
	if SchemaFor("payroll") != nil {
		t.Error("unknown table returned a schema")
	}
}

func TestIsBlankValue(t *testing.T) {
	for _, blank := range []string{"", "  ", "na", "N/A", "Null", "NONE"} {
		if !IsBlankValue(blank) {
			t.Errorf("IsBlankValue(%q) = false, want true", blank)
		}
	}
	for _, real := range []string{"Fire", "0", "nander"} {
		if IsBlankValue(real) {
			t.Errorf("IsBlankValue(%q) = true, want false", real)
		}
	}
}

func TestTemplateHeadersMatchSchemas(t *testing.T) {
	for table, schema := range schemas {
		tmpl := TemplateCSV(table)
		if len(tmpl) != 2 {
			t.Fatalf("%s: template must have a header and one example row", table)
		}
		headers := map[string]bool{}
		for _, h := range tmpl[0] {
			headers[h] = true
		}
		for _, req := range schema.Required {
			if !headers[req] {
				t.Errorf("%s: template missing required column %q", table, req)
			}
		}
		for _, h := range tmpl[0] {
			if !schema.Recognized(h) {
				t.Errorf("%s: template column %q not in schema", table, h)
			}
		}
	}
}

func TestTemplateExampleRowsValidate(t *testing.T) {
	for table := range schemas {
		tmpl := TemplateCSV(table)
		res := ValidateAndBuildRecords(SchemaFor(table), tmpl[0], tmpl[1:], julyStart())
		if res.Blocked() {
			t.Errorf("%s: template example row fails validation: %v", table, issueMessages(res.Issues))
		}
	}
}

func TestSplitHeaderRows(t *testing.T) {
	records := [][]string{
		{"a", "b"},
		{"1", "2"},
		{"", "  "},
		{"3", "4"},
	}
	headers, rows, err := SplitHeaderRows(records)
	if err != nil {
		t.Fatalf("SplitHeaderRows: %v", err)
	}
	if !reflect.DeepEqual(headers, []string{"a", "b"}) {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Errorf("empty rows not dropped: %v", rows)
	}

	if _, _, err := SplitHeaderRows([][]string{{"a", "b"}}); err == nil {
		t.Error("header-only file accepted")
	}
	if _, _, err := SplitHeaderRows(nil); err == nil {
		t.Error("empty file accepted")
	}
}
