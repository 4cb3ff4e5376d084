package auth

// Roles form a fixed four-level hierarchy. The tables below are static data;
// nothing mutates them at runtime.
const (
	RoleUser             = "user"
	RoleAnalyst          = "analyst"
	RoleContentModerator = "content_moderator"
	RoleSuperAdmin       = "super_admin"
)

var roleLevels = map[string]int{
	RoleUser:             0,
	RoleAnalyst:          1,
	RoleContentModerator: 2,
	RoleSuperAdmin:       3,
}

// Permission capabilities. Closed set.
const (
	PermViewUsers        = "view_users"
	PermModifyUserRole   = "modify_user_role"
	PermModifyUserStatus = "modify_user_status"
	PermViewAnalytics    = "view_analytics"
	PermViewAPIUsage     = "view_api_usage"
	PermViewSystemHealth = "view_system_health"
	PermModerateContent  = "moderate_content"
	PermViewAnalyses     = "view_analyses"
	PermCreateAnalyses   = "create_analyses"
	PermEditAnalyses     = "edit_analyses"
	PermDeleteAnalyses   = "delete_analyses"
)

var rolePermissions = map[string]map[string]struct{}{
	RoleUser: setOf(
		PermViewAnalyses,
		PermCreateAnalyses,
		PermEditAnalyses,
		PermDeleteAnalyses,
	),
	RoleAnalyst: setOf(
		PermViewAnalyses,
		PermCreateAnalyses,
		PermEditAnalyses,
		PermDeleteAnalyses,
		PermViewAnalytics,
		PermViewAPIUsage,
	),
	RoleContentModerator: setOf(
		PermViewAnalyses,
		PermCreateAnalyses,
		PermEditAnalyses,
		PermDeleteAnalyses,
		PermViewAnalytics,
		PermViewAPIUsage,
		PermViewUsers,
		PermModifyUserStatus,
		PermModerateContent,
	),
	RoleSuperAdmin: setOf(
		PermViewAnalyses,
		PermCreateAnalyses,
		PermEditAnalyses,
		PermDeleteAnalyses,
		PermViewAnalytics,
		PermViewAPIUsage,
		PermViewUsers,
		PermModifyUserRole,
		PermModifyUserStatus,
		PermViewSystemHealth,
		PermModerateContent,
	),
}

func setOf(perms ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// IsValidRole reports whether role is one of the four known roles.
func IsValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// HasPermission reports whether the role grants the permission. Unknown
// roles grant nothing.
func HasPermission(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}

// RoleAtLeast reports whether role meets or exceeds minRole in the
// hierarchy. Unknown roles sit at the bottom.
func RoleAtLeast(role, minRole string) bool {
	return roleLevels[role] >= roleLevels[minRole]
}

// CanModifyUser reports whether a user with modifierRole may modify a user
// with targetRole. Super admins may modify anyone; content moderators only
// strictly lower roles; everyone else nobody.
func CanModifyUser(modifierRole, targetRole string) bool {
	if modifierRole == RoleSuperAdmin {
		return true
	}
	if modifierRole == RoleContentModerator {
		return roleLevels[modifierRole] > roleLevels[targetRole]
	}
	return false
}
