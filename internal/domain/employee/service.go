package employee

import (
	"context"
)

// EmployeeService defines the employee reads the time-off workflow needs
type EmployeeService interface {
	// GetEmployee retrieves a single employee of the organization
	GetEmployee(ctx context.Context, organizationID, id string) (Employee, error)

	// ListDirectReports lists employees whose manager is managerID
	ListDirectReports(ctx context.Context, organizationID, managerID string) ([]EmployeeResponse, error)
}
