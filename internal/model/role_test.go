package model

import "testing"

func TestRoleLevel(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{RoleSuperuser, 1},
		{RoleAdmin, 2},
		{RoleSuperAdmin, 3},
		{"", 0},
		{"editor", 0},
	}

	for _, tt := range tests {
		if got := RoleLevel(tt.role); got != tt.want {
			t.Errorf("RoleLevel(%q) = %d, want %d", tt.role, got, tt.want)
		}
	}
}

func TestMeetsMinimum(t *testing.T) {
	roles := []string{"", "unknown", RoleSuperuser, RoleAdmin, RoleSuperAdmin}
	minimums := []string{RoleSuperuser, RoleAdmin, RoleSuperAdmin}

	// MeetsMinimum must agree with the numeric ordering for every pair.
	for _, role := range roles {
		for _, min := range minimums {
			want := RoleLevel(role) >= RoleLevel(min)
			if got := MeetsMinimum(role, min); got != want {
				t.Errorf("MeetsMinimum(%q, %q) = %v, want %v", role, min, got, want)
			}
		}
	}
}

func TestMeetsMinimumUnknownMinimum(t *testing.T) {
	// An unrecognized minimum fails closed, even for the highest role.
	if MeetsMinimum(RoleSuperAdmin, "root") {
		t.Error("MeetsMinimum should reject an unknown minimum")
	}
	if MeetsMinimum(RoleSuperAdmin, "") {
		t.Error("MeetsMinimum should reject an empty minimum")
	}
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		caller string
		target string
		want   bool
	}{
		{RoleAdmin, RoleSuperuser, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleSuperuser, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleSuperAdmin, false},
		{RoleSuperuser, RoleSuperuser, false},
		{"", RoleSuperuser, false},
	}

	for _, tt := range tests {
		if got := CanAssignRole(tt.caller, tt.target); got != tt.want {
			t.Errorf("CanAssignRole(%q, %q) = %v, want %v", tt.caller, tt.target, got, tt.want)
		}
	}
}

func TestIsValidTheme(t *testing.T) {
	for _, theme := range ValidThemes {
		if !IsValidTheme(theme) {
			t.Errorf("IsValidTheme(%q) = false, want true", theme)
		}
	}
	if IsValidTheme("sepia") {
		t.Error("IsValidTheme(\"sepia\") = true, want false")
	}
}

func TestIsValidFrequency(t *testing.T) {
	for _, f := range ValidFrequencies {
		if !IsValidFrequency(f) {
			t.Errorf("IsValidFrequency(%q) = false, want true", f)
		}
	}
	if IsValidFrequency("weekly") {
		t.Error("IsValidFrequency(\"weekly\") = true, want false")
	}
}
