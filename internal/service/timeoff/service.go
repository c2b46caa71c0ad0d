package timeoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/sse"
)

// EventPublisher delivers live events to a single employee.
type EventPublisher interface {
	Publish(employeeID string, event sse.Event)
}

// TimeOffServiceImpl is the entry point used by the HTTP layer. It resolves
// the actor, checks the approval policy and publishes events after commit.
type TimeOffServiceImpl struct {
	requestService *RequestService
	queryService   *QueryService
	typeService    *TypeService
	policy         ApprovalPolicy
	employees      employee.EmployeeRepository
	requests       timeoff.TimeOffRequestRepository
	events         EventPublisher
	logger         *slog.Logger
}

func NewTimeOffService(
	requestService *RequestService,
	queryService *QueryService,
	typeService *TypeService,
	employees employee.EmployeeRepository,
	requests timeoff.TimeOffRequestRepository,
	events EventPublisher,
	logger *slog.Logger,
) timeoff.TimeOffService {
	return &TimeOffServiceImpl{
		requestService: requestService,
		queryService:   queryService,
		typeService:    typeService,
		employees:      employees,
		requests:       requests,
		events:         events,
		logger:         logger,
	}
}

// CreateType implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) CreateType(ctx context.Context, organizationID string, req timeoff.CreateTimeOffTypeRequest) (timeoff.TimeOffTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.TimeOffTypeResponse{}, err
	}
	t, err := s.typeService.Create(ctx, req.ToTimeOffType(organizationID))
	if err != nil {
		return timeoff.TimeOffTypeResponse{}, err
	}
	return timeoff.NewTimeOffTypeResponse(t), nil
}

// UpdateType implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) UpdateType(ctx context.Context, organizationID string, req timeoff.UpdateTimeOffTypeRequest) (timeoff.TimeOffTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.TimeOffTypeResponse{}, err
	}
	t, err := s.typeService.Update(ctx, organizationID, req.ID, req)
	if err != nil {
		return timeoff.TimeOffTypeResponse{}, err
	}
	return timeoff.NewTimeOffTypeResponse(t), nil
}

// GetType implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) GetType(ctx context.Context, organizationID, id string) (timeoff.TimeOffTypeResponse, error) {
	t, err := s.typeService.Get(ctx, organizationID, id)
	if err != nil {
		return timeoff.TimeOffTypeResponse{}, err
	}
	return timeoff.NewTimeOffTypeResponse(t), nil
}

// ListTypes implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) ListTypes(ctx context.Context, organizationID string, includeInactive bool) ([]timeoff.TimeOffTypeResponse, error) {
	types, err := s.typeService.List(ctx, organizationID, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]timeoff.TimeOffTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, timeoff.NewTimeOffTypeResponse(t))
	}
	return resp, nil
}

// DeleteType implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) DeleteType(ctx context.Context, organizationID, id string) error {
	return s.typeService.Delete(ctx, organizationID, id)
}

// CreateRequest implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) CreateRequest(ctx context.Context, organizationID string, req timeoff.CreateTimeOffRequestRequest) (timeoff.TimeOffRequestResponse, error) {
	if req.EmployeeID == "" {
		return timeoff.TimeOffRequestResponse{}, user.ErrEmployeeProfileRequired
	}
	if err := req.Validate(); err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	in, err := req.ToNewRequest(organizationID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	request, approval, err := s.requestService.Create(ctx, in)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	if approval.Status == timeoff.StatusPending {
		s.notifyManager(ctx, request, approval, timeoff.EventRequested)
	}

	return timeoff.NewTimeOffRequestResponse(request).WithApproval(approval), nil
}

// GetRequest implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) GetRequest(ctx context.Context, organizationID string, actor user.Actor, requestID string) (timeoff.TimeOffRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, organizationID, requestID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	requester, err := s.employees.GetByID(ctx, organizationID, request.EmployeeID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}
	if err := s.policy.CanView(requester, actor); err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	resp := timeoff.NewTimeOffRequestResponse(request)
	approval, err := s.requests.GetApprovalFor(ctx, organizationID, timeoff.TimeOffRequestRef(request.ID))
	if err != nil {
		if errors.Is(err, timeoff.ErrApprovalNotFound) {
			return resp, nil
		}
		return timeoff.TimeOffRequestResponse{}, err
	}
	return resp.WithApproval(approval), nil
}

// CancelRequest implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) CancelRequest(ctx context.Context, organizationID string, actor user.Actor, requestID string) (timeoff.TimeOffRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, organizationID, requestID)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}
	if err := s.policy.CanCancel(request, actor); err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	previous := request.Status
	cancelled, err := s.requestService.Cancel(ctx, request)
	if err != nil {
		return timeoff.TimeOffRequestResponse{}, err
	}

	if previous != timeoff.StatusCancelled {
		s.notifyManager(ctx, cancelled, timeoff.Approval{}, timeoff.EventCancelled)
	}

	return timeoff.NewTimeOffRequestResponse(cancelled), nil
}

// DeleteRequest implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) DeleteRequest(ctx context.Context, organizationID, requestID string) error {
	request, err := s.requests.GetByID(ctx, organizationID, requestID)
	if err != nil {
		return err
	}
	return s.requestService.Delete(ctx, request)
}

// ListMyRequests implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) ListMyRequests(ctx context.Context, organizationID string, actor user.Actor, filter timeoff.EmployeeRequestFilter) (timeoff.ListTimeOffRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeoff.ListTimeOffRequestResponse{}, err
	}

	var emp *employee.Employee
	if actor.EmployeeID != "" {
		e, err := s.employees.GetByID(ctx, organizationID, actor.EmployeeID)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return timeoff.ListTimeOffRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		if err == nil {
			emp = &e
		}
	}

	page, err := s.queryService.EmployeeRequests(ctx, organizationID, emp, filter)
	if err != nil {
		return timeoff.ListTimeOffRequestResponse{}, err
	}

	requests := make([]timeoff.TimeOffRequestResponse, 0, len(page.Requests))
	for _, r := range page.Requests {
		requests = append(requests, timeoff.NewTimeOffRequestResponse(r))
	}

	totalPages := 1
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(page.Total) / float64(filter.Limit)))
	}

	return timeoff.ListTimeOffRequestResponse{
		TotalCount: page.Total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   requests,
	}, nil
}

// ListPendingApprovals implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) ListPendingApprovals(ctx context.Context, organizationID string, actor user.Actor) ([]timeoff.PendingApprovalResponse, error) {
	if actor.EmployeeID == "" {
		return []timeoff.PendingApprovalResponse{}, nil
	}
	manager, err := s.employees.GetByID(ctx, organizationID, actor.EmployeeID)
	if err != nil {
		return nil, err
	}

	pending, err := s.queryService.PendingApprovals(ctx, organizationID, manager)
	if err != nil {
		return nil, err
	}

	resp := make([]timeoff.PendingApprovalResponse, 0, len(pending))
	for _, p := range pending {
		resp = append(resp, timeoff.NewPendingApprovalResponse(p))
	}
	return resp, nil
}

// GetApproval implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) GetApproval(ctx context.Context, organizationID string, actor user.Actor, approvalID string) (timeoff.ApprovalResponse, error) {
	approval, err := s.requests.GetApproval(ctx, organizationID, approvalID)
	if err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	request, err := s.requests.GetByID(ctx, organizationID, approval.Approvable.ID)
	if err != nil {
		return timeoff.ApprovalResponse{}, err
	}
	requester, err := s.employees.GetByID(ctx, organizationID, request.EmployeeID)
	if err != nil {
		return timeoff.ApprovalResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}
	if err := s.policy.CanView(requester, actor); err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	return timeoff.NewApprovalResponse(approval), nil
}

// ApproveRequest implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) ApproveRequest(ctx context.Context, organizationID string, actor user.Actor, approvalID string) (timeoff.ApprovalResponse, error) {
	approval, request, approver, err := s.authorizeDecision(ctx, organizationID, actor, approvalID)
	if err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	decided, err := s.requestService.Approve(ctx, approval, approver)
	if err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	s.publish(request.EmployeeID, timeoff.EventApproved, request, decided)
	return timeoff.NewApprovalResponse(decided), nil
}

// RejectRequest implements timeoff.TimeOffService.
func (s *TimeOffServiceImpl) RejectRequest(ctx context.Context, organizationID string, actor user.Actor, req timeoff.RejectApprovalRequest) (timeoff.ApprovalResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	approval, request, approver, err := s.authorizeDecision(ctx, organizationID, actor, req.ApprovalID)
	if err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	decided, err := s.requestService.Reject(ctx, approval, approver, req.Reason)
	if err != nil {
		return timeoff.ApprovalResponse{}, err
	}

	s.publish(request.EmployeeID, timeoff.EventRejected, request, decided)
	return timeoff.NewApprovalResponse(decided), nil
}

func (s *TimeOffServiceImpl) authorizeDecision(ctx context.Context, organizationID string, actor user.Actor, approvalID string) (timeoff.Approval, timeoff.TimeOffRequest, employee.Employee, error) {
	if actor.EmployeeID == "" {
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, timeoff.ErrNotApprover
	}

	approval, err := s.requests.GetApproval(ctx, organizationID, approvalID)
	if err != nil {
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, err
	}
	if approval.Status.IsDecided() {
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, timeoff.ErrApprovalAlreadyDecided
	}

	request, err := s.requests.GetByID(ctx, organizationID, approval.Approvable.ID)
	if err != nil {
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, err
	}

	requester, err := s.employees.GetByID(ctx, organizationID, request.EmployeeID)
	if err != nil {
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, fmt.Errorf("failed to get requester: %w", err)
	}
	approver, err := s.employees.GetByID(ctx, organizationID, actor.EmployeeID)
	if err != nil {
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, fmt.Errorf("failed to get approver: %w", err)
	}

	if err := s.policy.Authorize(approval, requester, approver, actor.Role); err != nil {
		s.logger.Warn("approval decision refused",
			"organization_id", organizationID,
			"approval_id", approval.ID,
			"actor_employee_id", actor.EmployeeID,
		)
		return timeoff.Approval{}, timeoff.TimeOffRequest{}, employee.Employee{}, err
	}

	return approval, request, approver, nil
}

// notifyManager publishes name to the requester's direct manager, if any.
func (s *TimeOffServiceImpl) notifyManager(ctx context.Context, request timeoff.TimeOffRequest, approval timeoff.Approval, name string) {
	if s.events == nil {
		return
	}
	requester, err := s.employees.GetByID(ctx, request.OrganizationID, request.EmployeeID)
	if err != nil {
		s.logger.Warn("failed to resolve requester for event", "request_id", request.ID, "error", err)
		return
	}
	if requester.ManagerID == nil {
		return
	}
	s.publish(*requester.ManagerID, name, request, approval)
}

func (s *TimeOffServiceImpl) publish(recipientID, name string, request timeoff.TimeOffRequest, approval timeoff.Approval) {
	if s.events == nil {
		return
	}
	status := request.Status
	if approval.ID != "" {
		status = approval.Status
	}
	s.events.Publish(recipientID, sse.Event{
		Name: name,
		Data: timeoff.EventPayload{
			RequestID:  request.ID,
			ApprovalID: approval.ID,
			EmployeeID: request.EmployeeID,
			Status:     status,
		},
	})
}
