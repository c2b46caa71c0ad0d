package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, organizationID, id string) (employee.Employee, error) {
	if id == "" {
		return employee.Employee{}, employee.ErrEmployeeRequired
	}
	return s.employeeRepo.GetByID(ctx, organizationID, id)
}

// ListDirectReports implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDirectReports(ctx context.Context, organizationID, managerID string) ([]employee.EmployeeResponse, error) {
	if managerID == "" {
		return []employee.EmployeeResponse{}, nil
	}

	reports, err := s.employeeRepo.ListDirectReports(ctx, organizationID, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}

	resp := make([]employee.EmployeeResponse, 0, len(reports))
	for _, e := range reports {
		resp = append(resp, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}
