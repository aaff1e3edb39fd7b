package auth

const (
	RoleEmployee       = "employee"
	RoleDepartmentHead = "department_head"
	RoleAdmin          = "admin"
	RoleSuperAdmin     = "super_admin"
)

var AllRoles = []string{RoleEmployee, RoleDepartmentHead, RoleAdmin, RoleSuperAdmin}

func ValidRole(role string) bool {
	for _, candidate := range AllRoles {
		if role == candidate {
			return true
		}
	}
	return false
}

// Allowed reports whether a role may pass a guard requiring one of the given
// roles. An empty requirement admits any authenticated role. Super admins pass
// every check.
func Allowed(role string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	if role == RoleSuperAdmin {
		return true
	}
	for _, candidate := range required {
		if role == candidate {
			return true
		}
	}
	return false
}
