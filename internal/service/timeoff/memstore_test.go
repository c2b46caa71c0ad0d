package timeoff_test

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
)

// memStore is an in-memory stand-in for the postgres repositories. It keeps
// the same write semantics: a decision or cancellation updates the approval
// and its request together.
type memStore struct {
	employees map[string]employee.Employee
	periods   map[string]period.Period
	types     map[string]timeoff.TimeOffType
	requests  map[string]timeoff.TimeOffRequest
	approvals map[string]timeoff.Approval
}

func newMemStore() *memStore {
	return &memStore{
		employees: map[string]employee.Employee{},
		periods:   map[string]period.Period{},
		types:     map[string]timeoff.TimeOffType{},
		requests:  map[string]timeoff.TimeOffRequest{},
		approvals: map[string]timeoff.Approval{},
	}
}

type memEmployees struct{ *memStore }

func (m memEmployees) GetByID(_ context.Context, organizationID, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok || e.OrganizationID != organizationID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m memEmployees) ListDirectReports(_ context.Context, organizationID, managerID string) ([]employee.Employee, error) {
	var reports []employee.Employee
	for _, e := range m.employees {
		if e.OrganizationID == organizationID && e.ReportsTo(managerID) {
			reports = append(reports, e)
		}
	}
	return reports, nil
}

type memPeriods struct{ *memStore }

func (m memPeriods) GetByID(_ context.Context, organizationID, id string) (period.Period, error) {
	p, ok := m.periods[id]
	if !ok || p.OrganizationID != organizationID {
		return period.Period{}, period.ErrPeriodNotFound
	}
	return p, nil
}

func (m memPeriods) ListByOrganization(_ context.Context, organizationID string) ([]period.Period, error) {
	var periods []period.Period
	for _, p := range m.periods {
		if p.OrganizationID == organizationID {
			periods = append(periods, p)
		}
	}
	return periods, nil
}

type memTypes struct{ *memStore }

func (m memTypes) Create(_ context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	m.types[t.ID] = t
	return t, nil
}

func (m memTypes) GetByID(_ context.Context, organizationID, id string) (timeoff.TimeOffType, error) {
	t, ok := m.types[id]
	if !ok || t.OrganizationID != organizationID || t.DeletedAt != nil {
		return timeoff.TimeOffType{}, timeoff.ErrTimeOffTypeNotFound
	}
	return t, nil
}

func (m memTypes) ListByOrganization(_ context.Context, organizationID string, includeInactive bool) ([]timeoff.TimeOffType, error) {
	var types []timeoff.TimeOffType
	for _, t := range m.types {
		if t.OrganizationID == organizationID && t.DeletedAt == nil && (includeInactive || t.IsActive) {
			types = append(types, t)
		}
	}
	return types, nil
}

func (m memTypes) Update(ctx context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	if _, err := m.GetByID(ctx, t.OrganizationID, t.ID); err != nil {
		return timeoff.TimeOffType{}, err
	}
	m.types[t.ID] = t
	return t, nil
}

func (m memTypes) SoftDelete(ctx context.Context, organizationID, id string, at time.Time) error {
	t, err := m.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	t.DeletedAt = &at
	m.types[id] = t
	return nil
}

type memRequests struct{ *memStore }

func (m memRequests) CreateWithApproval(_ context.Context, request timeoff.TimeOffRequest, approval timeoff.Approval) (timeoff.TimeOffRequest, timeoff.Approval, error) {
	m.requests[request.ID] = request
	m.approvals[approval.ID] = approval
	return request, approval, nil
}

func (m memRequests) GetByID(_ context.Context, organizationID, id string) (timeoff.TimeOffRequest, error) {
	r, ok := m.requests[id]
	if !ok || r.OrganizationID != organizationID {
		return timeoff.TimeOffRequest{}, timeoff.ErrTimeOffRequestNotFound
	}
	return r, nil
}

func (m memRequests) GetApproval(_ context.Context, organizationID, id string) (timeoff.Approval, error) {
	a, ok := m.approvals[id]
	if !ok || a.OrganizationID != organizationID {
		return timeoff.Approval{}, timeoff.ErrApprovalNotFound
	}
	return a, nil
}

func (m memRequests) GetApprovalFor(_ context.Context, organizationID string, ref timeoff.ApprovableRef) (timeoff.Approval, error) {
	for _, a := range m.approvals {
		if a.OrganizationID == organizationID && a.Approvable == ref {
			return a, nil
		}
	}
	return timeoff.Approval{}, timeoff.ErrApprovalNotFound
}

func (m memRequests) Decide(ctx context.Context, organizationID, approvalID string, d timeoff.Decision) (timeoff.Approval, error) {
	a, err := m.GetApproval(ctx, organizationID, approvalID)
	if err != nil {
		return timeoff.Approval{}, err
	}
	if a.Status != timeoff.StatusPending {
		return timeoff.Approval{}, timeoff.ErrApprovalAlreadyDecided
	}
	r, err := m.GetByID(ctx, organizationID, a.Approvable.ID)
	if err != nil {
		return timeoff.Approval{}, err
	}

	approver := d.ApproverID
	decidedAt := d.DecidedAt
	a.Status = d.Status
	a.ApprovedBy = &approver
	a.ApprovedAt = &decidedAt
	a.RejectionReason = d.RejectionReason
	a.UpdatedAt = d.DecidedAt
	r.Status = d.Status
	r.UpdatedAt = d.DecidedAt

	m.approvals[a.ID] = a
	m.requests[r.ID] = r
	return a, nil
}

func (m memRequests) Cancel(ctx context.Context, organizationID, requestID string, at time.Time) (timeoff.TimeOffRequest, error) {
	r, err := m.GetByID(ctx, organizationID, requestID)
	if err != nil {
		return timeoff.TimeOffRequest{}, err
	}
	if !r.Status.CanTransitionTo(timeoff.StatusCancelled) {
		return timeoff.TimeOffRequest{}, timeoff.ErrInvalidTransition
	}
	r.Status = timeoff.StatusCancelled
	r.UpdatedAt = at
	m.requests[r.ID] = r

	if a, err := m.GetApprovalFor(ctx, organizationID, timeoff.TimeOffRequestRef(r.ID)); err == nil {
		a.Status = timeoff.StatusCancelled
		a.UpdatedAt = at
		m.approvals[a.ID] = a
	}
	return r, nil
}

func (m memRequests) Delete(ctx context.Context, organizationID, requestID string) error {
	if _, err := m.GetByID(ctx, organizationID, requestID); err != nil {
		return err
	}
	if a, err := m.GetApprovalFor(ctx, organizationID, timeoff.TimeOffRequestRef(requestID)); err == nil {
		delete(m.approvals, a.ID)
	}
	delete(m.requests, requestID)
	return nil
}

func (m memRequests) matching(organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) []timeoff.TimeOffRequest {
	var out []timeoff.TimeOffRequest
	for _, r := range m.requests {
		if r.OrganizationID != organizationID || r.EmployeeID != employeeID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.TimeOffTypeID != nil && r.TimeOffTypeID != *filter.TimeOffTypeID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m memRequests) ListByEmployee(_ context.Context, organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) ([]timeoff.TimeOffRequest, error) {
	out := m.matching(organizationID, employeeID, filter)
	if filter.Limit <= 0 {
		return out, nil
	}
	start := min(filter.Offset(), len(out))
	end := min(start+filter.Limit, len(out))
	return out[start:end], nil
}

func (m memRequests) CountByEmployee(_ context.Context, organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) (int64, error) {
	return int64(len(m.matching(organizationID, employeeID, filter))), nil
}

func (m memRequests) ListPendingApprovals(_ context.Context, organizationID string, employeeIDs []string) ([]timeoff.PendingApproval, error) {
	var out []timeoff.PendingApproval
	for _, a := range m.approvals {
		if a.OrganizationID != organizationID || a.Status != timeoff.StatusPending {
			continue
		}
		r, ok := m.requests[a.Approvable.ID]
		if !ok || !slices.Contains(employeeIDs, r.EmployeeID) {
			continue
		}
		out = append(out, timeoff.PendingApproval{Approval: a, Request: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Approval.CreatedAt.Equal(out[j].Approval.CreatedAt) {
			return out[i].Approval.ID < out[j].Approval.ID
		}
		return out[i].Approval.CreatedAt.Before(out[j].Approval.CreatedAt)
	})
	return out, nil
}
