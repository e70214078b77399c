package validation

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		allowed []string
		want    bool
	}{
		{"empty role denied", "", []string{"admin"}, false},
		{"super admin passes any check", "super_admin", []string{"admin"}, true},
		{"super admin passes empty list", "super_admin", nil, true},
		{"exact match", "admin", []string{"admin", "viewer"}, true},
		{"case insensitive match", "Viewer", []string{"admin", "viewer"}, true},
		{"role not in list", "viewer", []string{"admin"}, false},
		{"plain role with empty list", "admin", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleAllows(tt.role, tt.allowed...); got != tt.want {
				t.Errorf("RoleAllows(%q, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestExtractUserID(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/admin/users/invite",
			strings.NewReader(`{"user_id":"u-1","email":"clerk@example.gov"}`))
		r.Header.Set("Content-Type", "application/json")
		got, err := ExtractUserID(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "u-1" {
			t.Errorf("got %q, want u-1", got)
		}
	})

	t.Run("query param on GET", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/admin/uploads?user_id=u-2", nil)
		got, err := ExtractUserID(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "u-2" {
			t.Errorf("got %q, want u-2", got)
		}
	})

	t.Run("form body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/admin/upload",
			strings.NewReader("user_id=u-3&table=budgets"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		got, err := ExtractUserID(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "u-3" {
			t.Errorf("got %q, want u-3", got)
		}
	})

	t.Run("missing user_id", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/admin/upload", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")
		if _, err := ExtractUserID(r); err == nil {
			t.Error("expected an error for a body without user_id")
		}
	})

	t.Run("body restored after extraction", func(t *testing.T) {
		body := `{"user_id":"u-4","role":"viewer"}`
		r := httptest.NewRequest("POST", "/admin/users/invite", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		if _, err := ExtractUserID(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		buf := make([]byte, len(body))
		n, _ := r.Body.Read(buf)
		if string(buf[:n]) != body {
			t.Errorf("body not restored: got %q", string(buf[:n]))
		}
	})
}
