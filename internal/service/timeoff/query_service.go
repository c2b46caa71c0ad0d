package timeoff

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"golang.org/x/sync/errgroup"
)

// RequestPage is one page of an employee's requests plus the unpaginated total.
type RequestPage struct {
	Requests []timeoff.TimeOffRequest
	Total    int64
}

// QueryService answers the read-side questions of the workflow.
type QueryService struct {
	employees employee.EmployeeRepository
	requests  timeoff.TimeOffRequestRepository
}

func NewQueryService(employees employee.EmployeeRepository, requests timeoff.TimeOffRequestRepository) *QueryService {
	return &QueryService{
		employees: employees,
		requests:  requests,
	}
}

// PendingApprovals lists the pending approvals of manager's direct reports,
// oldest first. A manager without reports gets an empty list.
func (q *QueryService) PendingApprovals(ctx context.Context, organizationID string, manager employee.Employee) ([]timeoff.PendingApproval, error) {
	reports, err := q.employees.ListDirectReports(ctx, organizationID, manager.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}
	if len(reports) == 0 {
		return []timeoff.PendingApproval{}, nil
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}

	pending, err := q.requests.ListPendingApprovals(ctx, organizationID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	if pending == nil {
		pending = []timeoff.PendingApproval{}
	}
	return pending, nil
}

// EmployeeRequests lists emp's requests newest first. A nil employee, such as
// an account with no employee profile, yields an empty page.
func (q *QueryService) EmployeeRequests(ctx context.Context, organizationID string, emp *employee.Employee, filter timeoff.EmployeeRequestFilter) (RequestPage, error) {
	if emp == nil {
		return RequestPage{Requests: []timeoff.TimeOffRequest{}}, nil
	}

	var (
		requests []timeoff.TimeOffRequest
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		requests, err = q.requests.ListByEmployee(gctx, organizationID, emp.ID, filter)
		if err != nil {
			return fmt.Errorf("failed to list time-off requests: %w", err)
		}
		return nil
	})

	if filter.Limit > 0 {
		g.Go(func() error {
			var err error
			total, err = q.requests.CountByEmployee(gctx, organizationID, emp.ID, filter)
			if err != nil {
				return fmt.Errorf("failed to count time-off requests: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return RequestPage{}, err
	}

	if requests == nil {
		requests = []timeoff.TimeOffRequest{}
	}
	if filter.Limit <= 0 {
		total = int64(len(requests))
	}

	return RequestPage{Requests: requests, Total: total}, nil
}
