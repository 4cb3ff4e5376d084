package auth

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleUser, PermCreateAnalyses, true},
		{RoleUser, PermViewUsers, false},
		{RoleUser, PermViewAPIUsage, false},
		{RoleAnalyst, PermViewAPIUsage, true},
		{RoleAnalyst, PermModerateContent, false},
		{RoleContentModerator, PermModerateContent, true},
		{RoleContentModerator, PermModifyUserStatus, true},
		{RoleContentModerator, PermModifyUserRole, false},
		{RoleSuperAdmin, PermModifyUserRole, true},
		{RoleSuperAdmin, PermViewSystemHealth, true},
		{"intruder", PermViewAnalyses, false},
		{"", PermViewAnalyses, false},
	}

	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.permission); got != tt.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role    string
		minRole string
		want    bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAnalyst, false},
		{RoleAnalyst, RoleUser, true},
		{RoleContentModerator, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleContentModerator, true},
		{"unknown", RoleUser, true}, // both sit at level zero
		{"unknown", RoleAnalyst, false},
	}

	for _, tt := range tests {
		if got := RoleAtLeast(tt.role, tt.minRole); got != tt.want {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minRole, got, tt.want)
		}
	}
}

func TestCanModifyUser(t *testing.T) {
	tests := []struct {
		modifier string
		target   string
		want     bool
	}{
		{RoleSuperAdmin, RoleSuperAdmin, true},
		{RoleSuperAdmin, RoleUser, true},
		{RoleContentModerator, RoleUser, true},
		{RoleContentModerator, RoleAnalyst, true},
		{RoleContentModerator, RoleContentModerator, false},
		{RoleContentModerator, RoleSuperAdmin, false},
		{RoleAnalyst, RoleUser, false},
		{RoleUser, RoleUser, false},
	}

	for _, tt := range tests {
		if got := CanModifyUser(tt.modifier, tt.target); got != tt.want {
			t.Errorf("CanModifyUser(%q, %q) = %v, want %v", tt.modifier, tt.target, got, tt.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleAnalyst, RoleContentModerator, RoleSuperAdmin} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "admin", "Moderator"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true", role)
		}
	}
}
