package timeoff

import (
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
)

// ApprovalPolicy decides who may act on someone else's request.
type ApprovalPolicy struct{}

// Authorize allows the requester's direct manager, or an owner, to decide the
// approval. Nobody decides their own request.
func (ApprovalPolicy) Authorize(approval timeoff.Approval, requester, approver employee.Employee, role user.Role) error {
	if approver.ID == requester.ID {
		return timeoff.ErrNotApprover
	}
	if approver.OrganizationID != approval.OrganizationID || requester.OrganizationID != approval.OrganizationID {
		return timeoff.ErrNotApprover
	}
	if requester.ReportsTo(approver.ID) || role.IsOwner() {
		return nil
	}
	return timeoff.ErrNotApprover
}

// CanView allows the requester, their direct manager and owners to read a request.
func (ApprovalPolicy) CanView(requester employee.Employee, actor user.Actor) error {
	if actor.Role.IsOwner() {
		return nil
	}
	if actor.EmployeeID != "" && (actor.EmployeeID == requester.ID || requester.ReportsTo(actor.EmployeeID)) {
		return nil
	}
	return timeoff.ErrNotRequestOwner
}

// CanCancel allows the requester and owners to withdraw a request.
func (ApprovalPolicy) CanCancel(request timeoff.TimeOffRequest, actor user.Actor) error {
	if actor.Role.IsOwner() {
		return nil
	}
	if actor.EmployeeID != "" && actor.EmployeeID == request.EmployeeID {
		return nil
	}
	return timeoff.ErrNotRequestOwner
}
