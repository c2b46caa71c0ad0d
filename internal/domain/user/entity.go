package user

type Role string

const (
	RoleOwner    Role = "owner"    // Organization owner - full access, may override approvals
	RoleManager  Role = "manager"  // Decides requests of direct reports
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsOwner checks if role is organization owner
func (r Role) IsOwner() bool {
	return r == RoleOwner
}

// Actor is the authenticated employee performing an operation.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       Role
}
