package user

type Permission string

const (
	// Self Management
	PermissionTimeOffViewOwn Permission = "time_off.view_own"
	PermissionTimeOffCreate  Permission = "time_off.create"

	// Team Management
	PermissionTimeOffApprove Permission = "time_off.approve"
	PermissionEmployeeTeam   Permission = "employee.view_team"

	// Administration
	PermissionTimeOffManage      Permission = "time_off.manage"
	PermissionTimeOffManageTypes Permission = "time_off.manage_types"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionTimeOffViewOwn,
		PermissionTimeOffCreate,
		PermissionTimeOffApprove,
		PermissionEmployeeTeam,
		PermissionTimeOffManage,
		PermissionTimeOffManageTypes,
	},
	RoleManager: {
		PermissionTimeOffViewOwn,
		PermissionTimeOffCreate,
		PermissionTimeOffApprove,
		PermissionEmployeeTeam,
	},
	RoleEmployee: {
		PermissionTimeOffViewOwn,
		PermissionTimeOffCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
