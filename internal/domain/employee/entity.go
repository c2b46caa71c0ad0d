package employee

import (
	"time"
)

type Employee struct {
	ID               string
	OrganizationID   string
	UserID           *string
	ManagerID        *string
	FullName         string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// ReportsTo reports whether managerID is the employee's direct manager.
func (e Employee) ReportsTo(managerID string) bool {
	return e.ManagerID != nil && *e.ManagerID == managerID
}
