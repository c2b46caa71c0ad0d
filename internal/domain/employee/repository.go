package employee

import "context"

// EmployeeRepository reads employees of a single organization. Every method
// takes the organization id; there is no unscoped lookup.
type EmployeeRepository interface {
	GetByID(ctx context.Context, organizationID, id string) (Employee, error)
	ListDirectReports(ctx context.Context, organizationID, managerID string) ([]Employee, error)
}
