package timeoff

import (
	"context"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
)

type TimeOffService interface {
	// Type
	CreateType(ctx context.Context, organizationID string, req CreateTimeOffTypeRequest) (TimeOffTypeResponse, error)
	UpdateType(ctx context.Context, organizationID string, req UpdateTimeOffTypeRequest) (TimeOffTypeResponse, error)
	GetType(ctx context.Context, organizationID, id string) (TimeOffTypeResponse, error)
	ListTypes(ctx context.Context, organizationID string, includeInactive bool) ([]TimeOffTypeResponse, error)
	DeleteType(ctx context.Context, organizationID, id string) error
	// Request
	CreateRequest(ctx context.Context, organizationID string, req CreateTimeOffRequestRequest) (TimeOffRequestResponse, error)
	GetRequest(ctx context.Context, organizationID string, actor user.Actor, requestID string) (TimeOffRequestResponse, error)
	CancelRequest(ctx context.Context, organizationID string, actor user.Actor, requestID string) (TimeOffRequestResponse, error)
	DeleteRequest(ctx context.Context, organizationID, requestID string) error
	ListMyRequests(ctx context.Context, organizationID string, actor user.Actor, filter EmployeeRequestFilter) (ListTimeOffRequestResponse, error)
	// Approval
	ListPendingApprovals(ctx context.Context, organizationID string, actor user.Actor) ([]PendingApprovalResponse, error)
	GetApproval(ctx context.Context, organizationID string, actor user.Actor, approvalID string) (ApprovalResponse, error)
	ApproveRequest(ctx context.Context, organizationID string, actor user.Actor, approvalID string) (ApprovalResponse, error)
	RejectRequest(ctx context.Context, organizationID string, actor user.Actor, req RejectApprovalRequest) (ApprovalResponse, error)
}
