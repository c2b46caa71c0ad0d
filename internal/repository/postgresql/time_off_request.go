package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timeOffRequestRepositoryImpl struct {
	db *database.DB
}

func NewTimeOffRequestRepository(db *database.DB) timeoff.TimeOffRequestRepository {
	return &timeOffRequestRepositoryImpl{db: db}
}

const (
	requestColumns = `r.id, r.organization_id, r.period_id, r.employee_id, r.time_off_type_id, r.status,
		r.start_date, r.end_date, r.is_half_day, r.created_at, r.updated_at, e.full_name, t.name`

	requestJoins = `
		INNER JOIN employees e ON e.id = r.employee_id AND e.organization_id = r.organization_id
		INNER JOIN time_off_types t ON t.id = r.time_off_type_id AND t.organization_id = r.organization_id`

	approvalColumns = `a.id, a.organization_id, a.approvable_type, a.approvable_id, a.status,
		a.approved_by, a.approved_at, a.rejection_reason, a.created_at, a.updated_at`
)

func requestDest(req *timeoff.TimeOffRequest) []any {
	return []any{
		&req.ID,
		&req.OrganizationID,
		&req.PeriodID,
		&req.EmployeeID,
		&req.TimeOffTypeID,
		&req.Status,
		&req.StartDate,
		&req.EndDate,
		&req.IsHalfDay,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.EmployeeName,
		&req.TimeOffTypeName,
	}
}

func approvalDest(a *timeoff.Approval) []any {
	return []any{
		&a.ID,
		&a.OrganizationID,
		&a.Approvable.Kind,
		&a.Approvable.ID,
		&a.Status,
		&a.ApprovedBy,
		&a.ApprovedAt,
		&a.RejectionReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}

// CreateWithApproval implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) CreateWithApproval(ctx context.Context, request timeoff.TimeOffRequest, approval timeoff.Approval) (timeoff.TimeOffRequest, timeoff.Approval, error) {
	q := GetQuerier(ctx, r.db)

	requestQuery := `
		INSERT INTO time_off_requests (
			id, organization_id, period_id, employee_id, time_off_type_id,
			status, start_date, end_date, is_half_day,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11
		)
	`
	_, err := q.Exec(ctx, requestQuery,
		request.ID, request.OrganizationID, request.PeriodID, request.EmployeeID, request.TimeOffTypeID,
		string(request.Status), request.StartDate, request.EndDate, request.IsHalfDay,
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, fmt.Errorf("failed to create time-off request: %w", err)
	}

	approvalQuery := `
		INSERT INTO approvals (
			id, organization_id, approvable_type, approvable_id,
			status, approved_by, approved_at, rejection_reason,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10
		)
	`
	_, err = q.Exec(ctx, approvalQuery,
		approval.ID, approval.OrganizationID, string(approval.Approvable.Kind), approval.Approvable.ID,
		string(approval.Status), approval.ApprovedBy, approval.ApprovedAt, approval.RejectionReason,
		approval.CreatedAt, approval.UpdatedAt,
	)
	if err != nil {
		return timeoff.TimeOffRequest{}, timeoff.Approval{}, fmt.Errorf("failed to create approval: %w", err)
	}

	return request, approval, nil
}

// GetByID implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + `
		FROM time_off_requests r` + requestJoins + `
		WHERE r.id = $1 AND r.organization_id = $2`

	var req timeoff.TimeOffRequest
	if err := q.QueryRow(ctx, query, id, organizationID).Scan(requestDest(&req)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeoff.TimeOffRequest{}, timeoff.ErrTimeOffRequestNotFound
		}
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to get time-off request: %w", err)
	}
	return req, nil
}

// GetApproval implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) GetApproval(ctx context.Context, organizationID, id string) (timeoff.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalColumns + `
		FROM approvals a
		WHERE a.id = $1 AND a.organization_id = $2`

	var a timeoff.Approval
	if err := q.QueryRow(ctx, query, id, organizationID).Scan(approvalDest(&a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeoff.Approval{}, timeoff.ErrApprovalNotFound
		}
		return timeoff.Approval{}, fmt.Errorf("failed to get approval: %w", err)
	}
	return a, nil
}

// GetApprovalFor implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) GetApprovalFor(ctx context.Context, organizationID string, ref timeoff.ApprovableRef) (timeoff.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalColumns + `
		FROM approvals a
		WHERE a.approvable_type = $1 AND a.approvable_id = $2 AND a.organization_id = $3`

	var a timeoff.Approval
	if err := q.QueryRow(ctx, query, string(ref.Kind), ref.ID, organizationID).Scan(approvalDest(&a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeoff.Approval{}, timeoff.ErrApprovalNotFound
		}
		return timeoff.Approval{}, fmt.Errorf("failed to get approval: %w", err)
	}
	return a, nil
}

// Decide implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) Decide(ctx context.Context, organizationID, approvalID string, d timeoff.Decision) (timeoff.Approval, error) {
	q := GetQuerier(ctx, r.db)

	// Compare-and-swap on status: a second decision finds no pending row.
	approvalQuery := `
		UPDATE approvals a SET
			status = $3,
			approved_by = $4,
			approved_at = $5,
			rejection_reason = $6,
			updated_at = $5
		WHERE a.id = $1 AND a.organization_id = $2 AND a.status = 'pending'
		RETURNING ` + approvalColumns

	var a timeoff.Approval
	err := q.QueryRow(ctx, approvalQuery,
		approvalID, organizationID,
		string(d.Status), d.ApproverID, d.DecidedAt, d.RejectionReason,
	).Scan(approvalDest(&a)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetApproval(ctx, organizationID, approvalID); getErr != nil {
				return timeoff.Approval{}, getErr
			}
			return timeoff.Approval{}, timeoff.ErrApprovalAlreadyDecided
		}
		return timeoff.Approval{}, fmt.Errorf("failed to decide approval: %w", err)
	}

	if a.Approvable.Kind != timeoff.ApprovableTimeOffRequest {
		return timeoff.Approval{}, fmt.Errorf("unsupported approvable type %q", a.Approvable.Kind)
	}

	requestQuery := `
		UPDATE time_off_requests
		SET status = $3, updated_at = $4
		WHERE id = $1 AND organization_id = $2
	`
	commandTag, err := q.Exec(ctx, requestQuery, a.Approvable.ID, organizationID, string(d.Status), d.DecidedAt)
	if err != nil {
		return timeoff.Approval{}, fmt.Errorf("failed to update time-off request status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return timeoff.Approval{}, timeoff.ErrTimeOffRequestNotFound
	}

	return a, nil
}

// Cancel implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) Cancel(ctx context.Context, organizationID, requestID string, at time.Time) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	requestQuery := `
		UPDATE time_off_requests r
		SET status = 'cancelled', updated_at = $3
		WHERE r.id = $1 AND r.organization_id = $2 AND r.status IN ('pending', 'approved', 'rejected')
		RETURNING r.id, r.organization_id, r.period_id, r.employee_id, r.time_off_type_id, r.status,
			r.start_date, r.end_date, r.is_half_day, r.created_at, r.updated_at
	`

	var req timeoff.TimeOffRequest
	err := q.QueryRow(ctx, requestQuery, requestID, organizationID, at).Scan(
		&req.ID,
		&req.OrganizationID,
		&req.PeriodID,
		&req.EmployeeID,
		&req.TimeOffTypeID,
		&req.Status,
		&req.StartDate,
		&req.EndDate,
		&req.IsHalfDay,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeoff.TimeOffRequest{}, timeoff.ErrInvalidTransition
		}
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to cancel time-off request: %w", err)
	}

	approvalQuery := `
		UPDATE approvals
		SET status = 'cancelled', updated_at = $4
		WHERE approvable_type = $1 AND approvable_id = $2 AND organization_id = $3
	`
	_, err = q.Exec(ctx, approvalQuery, string(timeoff.ApprovableTimeOffRequest), requestID, organizationID, at)
	if err != nil {
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to cancel approval: %w", err)
	}

	return req, nil
}

// Delete implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) Delete(ctx context.Context, organizationID, requestID string) error {
	q := GetQuerier(ctx, r.db)

	approvalQuery := `
		DELETE FROM approvals
		WHERE approvable_type = $1 AND approvable_id = $2 AND organization_id = $3
	`
	if _, err := q.Exec(ctx, approvalQuery, string(timeoff.ApprovableTimeOffRequest), requestID, organizationID); err != nil {
		return fmt.Errorf("failed to delete approval: %w", err)
	}

	requestQuery := `
		DELETE FROM time_off_requests
		WHERE id = $1 AND organization_id = $2
	`
	commandTag, err := q.Exec(ctx, requestQuery, requestID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete time-off request: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return timeoff.ErrTimeOffRequestNotFound
	}
	return nil
}

func employeeRequestWhere(organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) (string, []any) {
	conditions := []string{"r.organization_id = $1", "r.employee_id = $2"}
	args := []any{organizationID, employeeID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.TimeOffTypeID != nil {
		args = append(args, *filter.TimeOffTypeID)
		conditions = append(conditions, fmt.Sprintf("r.time_off_type_id = $%d", len(args)))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListByEmployee implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) ListByEmployee(ctx context.Context, organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) ([]timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	where, args := employeeRequestWhere(organizationID, employeeID, filter)
	query := `SELECT ` + requestColumns + `
		FROM time_off_requests r` + requestJoins + where + `
		ORDER BY r.created_at DESC, r.id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	defer rows.Close()

	var requests []timeoff.TimeOffRequest
	for rows.Next() {
		var req timeoff.TimeOffRequest
		if err := rows.Scan(requestDest(&req)...); err != nil {
			return nil, fmt.Errorf("failed to scan time-off request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time-off requests: %w", err)
	}

	return requests, nil
}

// CountByEmployee implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) CountByEmployee(ctx context.Context, organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := employeeRequestWhere(organizationID, employeeID, filter)
	query := `SELECT COUNT(*) FROM time_off_requests r` + where

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count time-off requests: %w", err)
	}
	return total, nil
}

// ListPendingApprovals implements timeoff.TimeOffRequestRepository.
func (r *timeOffRequestRepositoryImpl) ListPendingApprovals(ctx context.Context, organizationID string, employeeIDs []string) ([]timeoff.PendingApproval, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + approvalColumns + `, ` + requestColumns + `
		FROM approvals a
		INNER JOIN time_off_requests r ON r.id = a.approvable_id AND r.organization_id = a.organization_id` + requestJoins + `
		WHERE a.organization_id = $1
			AND a.approvable_type = $2
			AND a.status = 'pending'
			AND r.employee_id = ANY($3)
		ORDER BY a.created_at ASC, a.id ASC`

	rows, err := q.Query(ctx, query, organizationID, string(timeoff.ApprovableTimeOffRequest), employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	defer rows.Close()

	var pending []timeoff.PendingApproval
	for rows.Next() {
		var p timeoff.PendingApproval
		dest := append(approvalDest(&p.Approval), requestDest(&p.Request)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan pending approval: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending approvals: %w", err)
	}

	return pending, nil
}
