package timeoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
)

// RequestService runs the request lifecycle: create, approve, reject, cancel
// and delete. Every write goes through one transaction.
type RequestService struct {
	tx        database.Transactor
	types     timeoff.TimeOffTypeRepository
	requests  timeoff.TimeOffRequestRepository
	employees employee.EmployeeRepository
	periods   period.PeriodRepository
	logger    *slog.Logger
	options
}

func NewRequestService(
	tx database.Transactor,
	types timeoff.TimeOffTypeRepository,
	requests timeoff.TimeOffRequestRepository,
	employees employee.EmployeeRepository,
	periods period.PeriodRepository,
	logger *slog.Logger,
	opts ...Option,
) *RequestService {
	return &RequestService{
		tx:        tx,
		types:     types,
		requests:  requests,
		employees: employees,
		periods:   periods,
		logger:    logger,
		options:   newOptions(opts),
	}
}

// Create persists a new request together with its approval. Types that do not
// require approval produce an approved request immediately.
func (s *RequestService) Create(ctx context.Context, in timeoff.NewRequest) (timeoff.TimeOffRequest, timeoff.Approval, error) {
	request := timeoff.TimeOffRequest{
		OrganizationID: in.OrganizationID,
		PeriodID:       in.PeriodID,
		EmployeeID:     in.EmployeeID,
		TimeOffTypeID:  in.TimeOffTypeID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		IsHalfDay:      in.IsHalfDay,
	}
	if err := request.NormalizeDates(); err != nil {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, err
	}

	emp, err := s.employees.GetByID(ctx, in.OrganizationID, in.EmployeeID)
	if err != nil {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, fmt.Errorf("failed to get employee: %w", err)
	}

	timeOffType, err := s.types.GetByID(ctx, in.OrganizationID, in.TimeOffTypeID)
	if err != nil {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, fmt.Errorf("failed to get time-off type: %w", err)
	}
	if !timeOffType.IsActive {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, timeoff.ErrTimeOffTypeInactive
	}
	unit := timeoff.UnitDay
	if request.IsHalfDay {
		unit = timeoff.UnitHalfDay
	}
	if !timeOffType.Allows(unit) {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, timeoff.ErrUnitNotAllowed
	}

	p, err := s.periods.GetByID(ctx, in.OrganizationID, in.PeriodID)
	if err != nil {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, fmt.Errorf("failed to get period: %w", err)
	}
	if !p.IsActive() {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, timeoff.ErrPeriodClosed
	}
	if !p.Contains(request.StartDate) {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, timeoff.ErrOutsidePeriod
	}

	now := s.now()
	request.ID = s.newID()
	request.CreatedAt = now
	request.UpdatedAt = now

	approval := timeoff.NewApproval(s.newID(), request, timeOffType, now)
	request.Status = approval.Status

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, approval, err = s.requests.CreateWithApproval(ctx, request, approval)
		return err
	})
	if err != nil {
		s.logger.Error("failed to create time-off request",
			"organization_id", in.OrganizationID,
			"employee_id", in.EmployeeID,
			"error", err,
		)
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, fmt.Errorf("failed to create time-off request: %w", err)
	}

	request.EmployeeName = &emp.FullName
	request.TimeOffTypeName = &timeOffType.Name

	s.logger.Info("time-off request created",
		"organization_id", request.OrganizationID,
		"request_id", request.ID,
		"approval_id", approval.ID,
		"status", request.Status,
	)

	return request, approval, nil
}

// Approve records approver's approval of a pending approval and mirrors it to the request.
func (s *RequestService) Approve(ctx context.Context, approval timeoff.Approval, approver employee.Employee) (timeoff.Approval, error) {
	return s.decide(ctx, approval, approver, timeoff.StatusApproved, nil)
}

// Reject records approver's rejection with reason and mirrors it to the request.
func (s *RequestService) Reject(ctx context.Context, approval timeoff.Approval, approver employee.Employee, reason string) (timeoff.Approval, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return timeoff.Approval{}, timeoff.ErrRejectionReasonRequired
	}
	return s.decide(ctx, approval, approver, timeoff.StatusRejected, &reason)
}

func (s *RequestService) decide(ctx context.Context, approval timeoff.Approval, approver employee.Employee, status timeoff.Status, reason *string) (timeoff.Approval, error) {
	if approval.Status.IsDecided() {
		return timeoff.Approval{}, timeoff.ErrApprovalAlreadyDecided
	}
	if approver.OrganizationID != approval.OrganizationID {
		return timeoff.Approval{}, timeoff.ErrNotApprover
	}

	decision := timeoff.Decision{
		Status:          status,
		ApproverID:      approver.ID,
		DecidedAt:       s.now(),
		RejectionReason: reason,
	}

	var decided timeoff.Approval
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		decided, err = s.requests.Decide(ctx, approval.OrganizationID, approval.ID, decision)
		return err
	})
	if err != nil {
		if errors.Is(err, timeoff.ErrApprovalAlreadyDecided) {
			s.logger.Warn("approval decided concurrently",
				"organization_id", approval.OrganizationID,
				"approval_id", approval.ID,
			)
			return timeoff.Approval{}, err
		}
		s.logger.Error("failed to decide approval",
			"organization_id", approval.OrganizationID,
			"approval_id", approval.ID,
			"error", err,
		)
		return timeoff.Approval{}, fmt.Errorf("failed to decide approval: %w", err)
	}

	s.logger.Info("approval decided",
		"organization_id", decided.OrganizationID,
		"approval_id", decided.ID,
		"request_id", decided.Approvable.ID,
		"status", decided.Status,
		"approved_by", approver.ID,
	)

	return decided, nil
}

// Cancel withdraws request and its approval. Cancelling a cancelled request is a no-op.
func (s *RequestService) Cancel(ctx context.Context, request timeoff.TimeOffRequest) (timeoff.TimeOffRequest, error) {
	if request.Status == timeoff.StatusCancelled {
		return request, nil
	}
	if !request.Status.CanTransitionTo(timeoff.StatusCancelled) {
		return timeoff.TimeOffRequest{}, timeoff.ErrInvalidTransition
	}

	var cancelled timeoff.TimeOffRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		cancelled, err = s.requests.Cancel(ctx, request.OrganizationID, request.ID, s.now())
		return err
	})
	if err != nil {
		s.logger.Error("failed to cancel time-off request",
			"organization_id", request.OrganizationID,
			"request_id", request.ID,
			"error", err,
		)
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to cancel time-off request: %w", err)
	}

	cancelled.EmployeeName = request.EmployeeName
	cancelled.TimeOffTypeName = request.TimeOffTypeName

	s.logger.Info("time-off request cancelled",
		"organization_id", cancelled.OrganizationID,
		"request_id", cancelled.ID,
		"previous_status", request.Status,
	)

	return cancelled, nil
}

// Delete hard-deletes request and its approval.
func (s *RequestService) Delete(ctx context.Context, request timeoff.TimeOffRequest) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.requests.Delete(ctx, request.OrganizationID, request.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete time-off request: %w", err)
	}

	s.logger.Info("time-off request deleted",
		"organization_id", request.OrganizationID,
		"request_id", request.ID,
	)
	return nil
}
