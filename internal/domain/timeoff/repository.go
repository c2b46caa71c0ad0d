package timeoff

import (
	"context"
	"time"
)

// TimeOffTypeRepository - interface for time_off_types table
type TimeOffTypeRepository interface {
	Create(ctx context.Context, t TimeOffType) (TimeOffType, error)
	GetByID(ctx context.Context, organizationID, id string) (TimeOffType, error)
	ListByOrganization(ctx context.Context, organizationID string, includeInactive bool) ([]TimeOffType, error)
	Update(ctx context.Context, t TimeOffType) (TimeOffType, error)
	SoftDelete(ctx context.Context, organizationID, id string, at time.Time) error
}

// TimeOffRequestRepository - interface for time_off_requests and their approvals.
//
// It is the only write path for both tables: every method that changes a
// status writes the request and its approval together, and callers run those
// methods inside one transaction.
type TimeOffRequestRepository interface {
	CreateWithApproval(ctx context.Context, request TimeOffRequest, approval Approval) (TimeOffRequest, Approval, error)
	GetByID(ctx context.Context, organizationID, id string) (TimeOffRequest, error)
	GetApproval(ctx context.Context, organizationID, id string) (Approval, error)
	GetApprovalFor(ctx context.Context, organizationID string, ref ApprovableRef) (Approval, error)

	// Decide moves a pending approval and its request to d.Status. It returns
	// ErrApprovalAlreadyDecided when the approval is no longer pending.
	Decide(ctx context.Context, organizationID, approvalID string, d Decision) (Approval, error)

	// Cancel moves a request that is not yet cancelled, and its approval, to
	// cancelled. It returns ErrInvalidTransition when the request is already
	// cancelled.
	Cancel(ctx context.Context, organizationID, requestID string, at time.Time) (TimeOffRequest, error)

	// Delete removes the request and its approval.
	Delete(ctx context.Context, organizationID, requestID string) error

	ListByEmployee(ctx context.Context, organizationID, employeeID string, filter EmployeeRequestFilter) ([]TimeOffRequest, error)
	CountByEmployee(ctx context.Context, organizationID, employeeID string, filter EmployeeRequestFilter) (int64, error)

	// ListPendingApprovals returns pending approvals whose request belongs to
	// one of employeeIDs, oldest first.
	ListPendingApprovals(ctx context.Context, organizationID string, employeeIDs []string) ([]PendingApproval, error)
}
