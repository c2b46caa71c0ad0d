package timeoff_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/sse"
	"github.com/stretchr/testify/mock"
)

// --- Repository mocks ---

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, organizationID, id string) (employee.Employee, error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) ListDirectReports(ctx context.Context, organizationID, managerID string) ([]employee.Employee, error) {
	args := m.Called(ctx, organizationID, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]employee.Employee), args.Error(1)
}

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, organizationID, id string) (period.Period, error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(period.Period), args.Error(1)
}

func (m *MockPeriodRepository) ListByOrganization(ctx context.Context, organizationID string) ([]period.Period, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]period.Period), args.Error(1)
}

type MockTimeOffTypeRepository struct {
	mock.Mock
}

func (m *MockTimeOffTypeRepository) Create(ctx context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(timeoff.TimeOffType), args.Error(1)
}

func (m *MockTimeOffTypeRepository) GetByID(ctx context.Context, organizationID, id string) (timeoff.TimeOffType, error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(timeoff.TimeOffType), args.Error(1)
}

func (m *MockTimeOffTypeRepository) ListByOrganization(ctx context.Context, organizationID string, includeInactive bool) ([]timeoff.TimeOffType, error) {
	args := m.Called(ctx, organizationID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timeoff.TimeOffType), args.Error(1)
}

func (m *MockTimeOffTypeRepository) Update(ctx context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(timeoff.TimeOffType), args.Error(1)
}

func (m *MockTimeOffTypeRepository) SoftDelete(ctx context.Context, organizationID, id string, at time.Time) error {
	args := m.Called(ctx, organizationID, id, at)
	return args.Error(0)
}

type MockTimeOffRequestRepository struct {
	mock.Mock
}

func (m *MockTimeOffRequestRepository) CreateWithApproval(ctx context.Context, request timeoff.TimeOffRequest, approval timeoff.Approval) (timeoff.TimeOffRequest, timeoff.Approval, error) {
	args := m.Called(ctx, request, approval)
	return args.Get(0).(timeoff.TimeOffRequest), args.Get(1).(timeoff.Approval), args.Error(2)
}

func (m *MockTimeOffRequestRepository) GetByID(ctx context.Context, organizationID, id string) (timeoff.TimeOffRequest, error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(timeoff.TimeOffRequest), args.Error(1)
}

func (m *MockTimeOffRequestRepository) GetApproval(ctx context.Context, organizationID, id string) (timeoff.Approval, error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(timeoff.Approval), args.Error(1)
}

func (m *MockTimeOffRequestRepository) GetApprovalFor(ctx context.Context, organizationID string, ref timeoff.ApprovableRef) (timeoff.Approval, error) {
	args := m.Called(ctx, organizationID, ref)
	return args.Get(0).(timeoff.Approval), args.Error(1)
}

func (m *MockTimeOffRequestRepository) Decide(ctx context.Context, organizationID, approvalID string, d timeoff.Decision) (timeoff.Approval, error) {
	args := m.Called(ctx, organizationID, approvalID, d)
	return args.Get(0).(timeoff.Approval), args.Error(1)
}

func (m *MockTimeOffRequestRepository) Cancel(ctx context.Context, organizationID, requestID string, at time.Time) (timeoff.TimeOffRequest, error) {
	args := m.Called(ctx, organizationID, requestID, at)
	return args.Get(0).(timeoff.TimeOffRequest), args.Error(1)
}

func (m *MockTimeOffRequestRepository) Delete(ctx context.Context, organizationID, requestID string) error {
	args := m.Called(ctx, organizationID, requestID)
	return args.Error(0)
}

func (m *MockTimeOffRequestRepository) ListByEmployee(ctx context.Context, organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) ([]timeoff.TimeOffRequest, error) {
	args := m.Called(ctx, organizationID, employeeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timeoff.TimeOffRequest), args.Error(1)
}

func (m *MockTimeOffRequestRepository) CountByEmployee(ctx context.Context, organizationID, employeeID string, filter timeoff.EmployeeRequestFilter) (int64, error) {
	args := m.Called(ctx, organizationID, employeeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTimeOffRequestRepository) ListPendingApprovals(ctx context.Context, organizationID string, employeeIDs []string) ([]timeoff.PendingApproval, error) {
	args := m.Called(ctx, organizationID, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timeoff.PendingApproval), args.Error(1)
}

// --- Transactor and publisher fakes ---

// fakeTransactor runs fn inline and counts the outcome.
type fakeTransactor struct {
	commits   int
	rollbacks int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type publishedEvent struct {
	recipientID string
	event       sse.Event
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) Publish(employeeID string, event sse.Event) {
	p.events = append(p.events, publishedEvent{recipientID: employeeID, event: event})
}

func (p *recordingPublisher) names() []string {
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.event.Name)
	}
	return names
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs hands out ids in order so tests can assert them.
func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func strPtr(s string) *string {
	return &s
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
