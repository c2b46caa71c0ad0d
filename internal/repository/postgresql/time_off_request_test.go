package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	requestCols = []string{
		"id", "organization_id", "period_id", "employee_id", "time_off_type_id", "status",
		"start_date", "end_date", "is_half_day", "created_at", "updated_at", "full_name", "name",
	}
	approvalCols = []string{
		"approval_id", "approval_organization_id", "approvable_type", "approvable_id", "approval_status",
		"approved_by", "approved_at", "rejection_reason", "approval_created_at", "approval_updated_at",
	}
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func approvalValues(status timeoff.Status, approvedBy *string, approvedAt *time.Time, reason *string) []any {
	return []any{
		approvalID, orgID, timeoff.ApprovableTimeOffRequest, requestID, status,
		approvedBy, approvedAt, reason, fixedNow, fixedNow,
	}
}

func requestValues(id string, status timeoff.Status) []any {
	return []any{
		id, orgID, periodID, employeeID, typeID, status,
		day(2024, 6, 1), timePtr(day(2024, 6, 5)), false, fixedNow, fixedNow,
		strPtr("Ana Lima"), strPtr("Vacation"),
	}
}

func TestTimeOffRequestRepository_CreateWithApproval(t *testing.T) {
	mock, db := newMockDB(t)

	end := day(2024, 6, 5)
	req := timeoff.TimeOffRequest{
		ID:             requestID,
		OrganizationID: orgID,
		PeriodID:       periodID,
		EmployeeID:     employeeID,
		TimeOffTypeID:  typeID,
		Status:         timeoff.StatusPending,
		StartDate:      day(2024, 6, 1),
		EndDate:        &end,
		CreatedAt:      fixedNow,
		UpdatedAt:      fixedNow,
	}
	approval := timeoff.NewApproval(approvalID, req, timeoff.TimeOffType{RequiresApproval: true}, fixedNow)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO time_off_requests").
		WithArgs(requestID, orgID, periodID, employeeID, typeID, "pending", day(2024, 6, 1), &end, false, fixedNow, fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO approvals").
		WithArgs(approvalID, orgID, "time_off_request", requestID, "pending", (*string)(nil), (*time.Time)(nil), (*string)(nil), fixedNow, fixedNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := postgresql.NewTimeOffRequestRepository(db)
	var (
		gotReq      timeoff.TimeOffRequest
		gotApproval timeoff.Approval
	)
	err := postgresql.WithTransaction(context.Background(), db, func(ctx context.Context) error {
		var err error
		gotReq, gotApproval, err = repo.CreateWithApproval(ctx, req, approval)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, gotReq.Status, gotApproval.Status)
	assert.Equal(t, requestID, gotApproval.Approvable.ID)
}

func TestTimeOffRequestRepository_CreateWithApprovalRollsBack(t *testing.T) {
	mock, db := newMockDB(t)

	req := timeoff.TimeOffRequest{
		ID:             requestID,
		OrganizationID: orgID,
		PeriodID:       periodID,
		EmployeeID:     employeeID,
		TimeOffTypeID:  typeID,
		Status:         timeoff.StatusPending,
		StartDate:      day(2024, 6, 1),
		IsHalfDay:      true,
		CreatedAt:      fixedNow,
		UpdatedAt:      fixedNow,
	}
	approval := timeoff.NewApproval(approvalID, req, timeoff.TimeOffType{RequiresApproval: true}, fixedNow)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO time_off_requests").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO approvals").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := postgresql.NewTimeOffRequestRepository(db)
	err := postgresql.WithTransaction(context.Background(), db, func(ctx context.Context) error {
		_, _, err := repo.CreateWithApproval(ctx, req, approval)
		return err
	})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestTimeOffRequestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("WHERE r.id = \\$1 AND r.organization_id = \\$2").
			WithArgs(requestID, orgID).
			WillReturnRows(pgxmock.NewRows(requestCols).AddRow(requestValues(requestID, timeoff.StatusPending)...))

		repo := postgresql.NewTimeOffRequestRepository(db)
		req, err := repo.GetByID(context.Background(), orgID, requestID)

		require.NoError(t, err)
		assert.Equal(t, timeoff.StatusPending, req.Status)
		require.NotNil(t, req.EmployeeName)
		assert.Equal(t, "Ana Lima", *req.EmployeeName)
		assert.Equal(t, "5", req.Days().String())
	})

	t.Run("not found", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("FROM time_off_requests r").
			WithArgs(requestID, otherOrgID).
			WillReturnError(pgx.ErrNoRows)

		repo := postgresql.NewTimeOffRequestRepository(db)
		_, err := repo.GetByID(context.Background(), otherOrgID, requestID)

		assert.ErrorIs(t, err, timeoff.ErrTimeOffRequestNotFound)
	})
}

func TestTimeOffRequestRepository_GetApprovalFor(t *testing.T) {
	mock, db := newMockDB(t)
	mock.ExpectQuery("WHERE a.approvable_type = \\$1 AND a.approvable_id = \\$2").
		WithArgs("time_off_request", requestID, orgID).
		WillReturnRows(pgxmock.NewRows(approvalCols).AddRow(approvalValues(timeoff.StatusPending, nil, nil, nil)...))

	repo := postgresql.NewTimeOffRequestRepository(db)
	a, err := repo.GetApprovalFor(context.Background(), orgID, timeoff.TimeOffRequestRef(requestID))

	require.NoError(t, err)
	assert.Equal(t, approvalID, a.ID)
	assert.Equal(t, timeoff.ApprovableTimeOffRequest, a.Approvable.Kind)
}

func TestTimeOffRequestRepository_Decide(t *testing.T) {
	approve := timeoff.Decision{Status: timeoff.StatusApproved, ApproverID: managerID, DecidedAt: fixedNow}

	t.Run("approves pending approval and mirrors request", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("UPDATE approvals a SET").
			WithArgs(approvalID, orgID, "approved", managerID, fixedNow, (*string)(nil)).
			WillReturnRows(pgxmock.NewRows(approvalCols).
				AddRow(approvalValues(timeoff.StatusApproved, strPtr(managerID), timePtr(fixedNow), nil)...))
		mock.ExpectExec("UPDATE time_off_requests").
			WithArgs(requestID, orgID, "approved", fixedNow).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgresql.NewTimeOffRequestRepository(db)
		a, err := repo.Decide(context.Background(), orgID, approvalID, approve)

		require.NoError(t, err)
		assert.Equal(t, timeoff.StatusApproved, a.Status)
		require.NotNil(t, a.ApprovedBy)
		assert.Equal(t, managerID, *a.ApprovedBy)
	})

	t.Run("rejects with reason", func(t *testing.T) {
		mock, db := newMockDB(t)
		reason := "Team is understaffed"
		mock.ExpectQuery("UPDATE approvals a SET").
			WithArgs(approvalID, orgID, "rejected", managerID, fixedNow, &reason).
			WillReturnRows(pgxmock.NewRows(approvalCols).
				AddRow(approvalValues(timeoff.StatusRejected, strPtr(managerID), timePtr(fixedNow), &reason)...))
		mock.ExpectExec("UPDATE time_off_requests").
			WithArgs(requestID, orgID, "rejected", fixedNow).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgresql.NewTimeOffRequestRepository(db)
		a, err := repo.Decide(context.Background(), orgID, approvalID, timeoff.Decision{
			Status:          timeoff.StatusRejected,
			ApproverID:      managerID,
			DecidedAt:       fixedNow,
			RejectionReason: &reason,
		})

		require.NoError(t, err)
		require.NotNil(t, a.RejectionReason)
		assert.Equal(t, reason, *a.RejectionReason)
	})

	t.Run("already decided", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("UPDATE approvals a SET").
			WithArgs(approvalID, orgID, "approved", managerID, fixedNow, (*string)(nil)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("WHERE a.id = \\$1 AND a.organization_id = \\$2").
			WithArgs(approvalID, orgID).
			WillReturnRows(pgxmock.NewRows(approvalCols).
				AddRow(approvalValues(timeoff.StatusRejected, strPtr(managerID), timePtr(fixedNow), strPtr("no"))...))

		repo := postgresql.NewTimeOffRequestRepository(db)
		_, err := repo.Decide(context.Background(), orgID, approvalID, approve)

		assert.ErrorIs(t, err, timeoff.ErrApprovalAlreadyDecided)
		assert.ErrorIs(t, err, timeoff.ErrInvalidTransition)
	})

	t.Run("missing approval", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("UPDATE approvals a SET").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("WHERE a.id = \\$1 AND a.organization_id = \\$2").
			WithArgs(approvalID, orgID).
			WillReturnError(pgx.ErrNoRows)

		repo := postgresql.NewTimeOffRequestRepository(db)
		_, err := repo.Decide(context.Background(), orgID, approvalID, approve)

		assert.ErrorIs(t, err, timeoff.ErrApprovalNotFound)
	})
}

func TestTimeOffRequestRepository_Cancel(t *testing.T) {
	baseCols := requestCols[:11]

	t.Run("cancels request and approval", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("status IN \\('pending', 'approved', 'rejected'\\)").
			WithArgs(requestID, orgID, fixedNow).
			WillReturnRows(pgxmock.NewRows(baseCols).AddRow(requestValues(requestID, timeoff.StatusCancelled)[:11]...))
		mock.ExpectExec("UPDATE approvals").
			WithArgs("time_off_request", requestID, orgID, fixedNow).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgresql.NewTimeOffRequestRepository(db)
		req, err := repo.Cancel(context.Background(), orgID, requestID, fixedNow)

		require.NoError(t, err)
		assert.Equal(t, timeoff.StatusCancelled, req.Status)
	})

	t.Run("already cancelled", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("status IN \\('pending', 'approved', 'rejected'\\)").
			WithArgs(requestID, orgID, fixedNow).
			WillReturnError(pgx.ErrNoRows)

		repo := postgresql.NewTimeOffRequestRepository(db)
		_, err := repo.Cancel(context.Background(), orgID, requestID, fixedNow)

		assert.ErrorIs(t, err, timeoff.ErrInvalidTransition)
	})
}

func TestTimeOffRequestRepository_DeleteNotFound(t *testing.T) {
	mock, db := newMockDB(t)
	mock.ExpectExec("DELETE FROM approvals").
		WithArgs("time_off_request", requestID, orgID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM time_off_requests").
		WithArgs(requestID, orgID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := postgresql.NewTimeOffRequestRepository(db)
	err := repo.Delete(context.Background(), orgID, requestID)

	assert.ErrorIs(t, err, timeoff.ErrTimeOffRequestNotFound)
}

func TestTimeOffRequestRepository_ListByEmployee(t *testing.T) {
	t.Run("filters and paginates newest first", func(t *testing.T) {
		mock, db := newMockDB(t)

		status := timeoff.StatusApproved
		typeFilter := typeID
		filter := timeoff.EmployeeRequestFilter{Status: &status, TimeOffTypeID: &typeFilter, Page: 2, Limit: 10}

		mock.ExpectQuery("r.status = \\$3 AND r.time_off_type_id = \\$4\\s+ORDER BY r.created_at DESC, r.id DESC LIMIT \\$5 OFFSET \\$6").
			WithArgs(orgID, employeeID, "approved", typeID, 10, 10).
			WillReturnRows(pgxmock.NewRows(requestCols).AddRow(requestValues(requestID, timeoff.StatusApproved)...))

		repo := postgresql.NewTimeOffRequestRepository(db)
		requests, err := repo.ListByEmployee(context.Background(), orgID, employeeID, filter)

		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, timeoff.StatusApproved, requests[0].Status)
	})

	t.Run("unpaginated", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("ORDER BY r.created_at DESC, r.id DESC$").
			WithArgs(orgID, employeeID).
			WillReturnRows(pgxmock.NewRows(requestCols))

		repo := postgresql.NewTimeOffRequestRepository(db)
		requests, err := repo.ListByEmployee(context.Background(), orgID, employeeID, timeoff.EmployeeRequestFilter{})

		require.NoError(t, err)
		assert.Empty(t, requests)
	})
}

func TestTimeOffRequestRepository_CountByEmployee(t *testing.T) {
	mock, db := newMockDB(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM time_off_requests r WHERE r.organization_id = \\$1 AND r.employee_id = \\$2$").
		WithArgs(orgID, employeeID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	repo := postgresql.NewTimeOffRequestRepository(db)
	total, err := repo.CountByEmployee(context.Background(), orgID, employeeID, timeoff.EmployeeRequestFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestTimeOffRequestRepository_ListPendingApprovals(t *testing.T) {
	t.Run("no employees skips the query", func(t *testing.T) {
		_, db := newMockDB(t)

		repo := postgresql.NewTimeOffRequestRepository(db)
		pending, err := repo.ListPendingApprovals(context.Background(), orgID, nil)

		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("oldest first with resolved request", func(t *testing.T) {
		mock, db := newMockDB(t)

		cols := append(append([]string{}, approvalCols...), requestCols...)
		row := append(approvalValues(timeoff.StatusPending, nil, nil, nil), requestValues(requestID, timeoff.StatusPending)...)

		mock.ExpectQuery("r.employee_id = ANY\\(\\$3\\)\\s+ORDER BY a.created_at ASC").
			WithArgs(orgID, "time_off_request", []string{employeeID}).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(row...))

		repo := postgresql.NewTimeOffRequestRepository(db)
		pending, err := repo.ListPendingApprovals(context.Background(), orgID, []string{employeeID})

		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, approvalID, pending[0].Approval.ID)
		assert.Equal(t, requestID, pending[0].Request.ID)
		assert.Equal(t, pending[0].Approval.Status, pending[0].Request.Status)
	})
}
