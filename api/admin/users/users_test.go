package users

import (
	"testing"

	"CiviPortal/api/constants"
)

func TestValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"super_admin", true},
		{"admin", true},
		{"viewer", true},
		{"Admin", true},
		{"  viewer  ", true},
		{"owner", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := ValidRole(tc.role); got != tc.want {
			t.Errorf("ValidRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	tests := []struct {
		name            string
		requester       string
		target          string
		targetRole      string
		superAdminCount int
		want            bool
		wantReason      string
	}{
		{"delete viewer", "u1", "u2", "viewer", 1, true, ""},
		{"delete admin", "u1", "u2", "admin", 1, true, ""},
		{"self delete refused", "u1", "u1", "admin", 3, false, constants.ErrUserSelfDelete},
		{"last super admin refused", "u1", "u2", "super_admin", 1, false, constants.ErrUserLastSuperAdmin},
		{"second super admin deletable", "u1", "u2", "super_admin", 2, true, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, reason := CanDelete(tc.requester, tc.target, tc.targetRole, tc.superAdminCount)
			if got != tc.want || reason != tc.wantReason {
				t.Errorf("CanDelete = (%v, %q), want (%v, %q)", got, reason, tc.want, tc.wantReason)
			}
		})
	}
}
