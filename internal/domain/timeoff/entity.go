package timeoff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is shared by TimeOffRequest and Approval; a request's status always
// mirrors the status of the approval that owns its decision.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// A decided request is only reopened by cancelling it.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled},
	StatusRejected: {StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow permits moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsDecided reports whether an approver has already ruled on s.
func (s Status) IsDecided() bool {
	return s != StatusPending
}

type BalanceMode string

const (
	BalanceModeLimited   BalanceMode = "limited"
	BalanceModeUnlimited BalanceMode = "unlimited"
)

type Unit string

const (
	UnitDay     Unit = "day"
	UnitHalfDay Unit = "half_day"
	UnitHour    Unit = "hour"
)

// TimeOffType entity
type TimeOffType struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string

	// Policy Rules
	IsActive              bool
	RequiresApproval      bool
	RequiresJustification bool
	BalanceMode           BalanceMode
	AllowedUnits          []Unit

	// Presentation
	Icon  *string
	Color *string

	FallbackApprovalRoleID *string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Allows reports whether requests of this type may be expressed in unit u.
func (t TimeOffType) Allows(u Unit) bool {
	for _, allowed := range t.AllowedUnits {
		if allowed == u {
			return true
		}
	}
	return false
}

// InitialStatus is the status a new request of this type starts in.
func (t TimeOffType) InitialStatus() Status {
	if t.RequiresApproval {
		return StatusPending
	}
	return StatusApproved
}

// TimeOffRequest entity
type TimeOffRequest struct {
	ID             string
	OrganizationID string
	PeriodID       string
	EmployeeID     string
	TimeOffTypeID  string

	Status Status

	StartDate time.Time
	EndDate   *time.Time // nil for half-day requests
	IsHalfDay bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName    *string
	TimeOffTypeName *string
}

// NormalizeDates enforces the date invariants: a half-day request spans only
// its start date, any other request needs an end date on or after the start.
func (r *TimeOffRequest) NormalizeDates() error {
	if r.IsHalfDay {
		r.EndDate = nil
		return nil
	}
	if r.EndDate == nil {
		return ErrEndDateRequired
	}
	if calendarDay(*r.EndDate).Before(calendarDay(r.StartDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// LastDay is the final calendar day covered by the request.
func (r TimeOffRequest) LastDay() time.Time {
	if r.EndDate == nil {
		return r.StartDate
	}
	return *r.EndDate
}

// Days is the number of calendar days requested; a half day counts 0.5.
func (r TimeOffRequest) Days() decimal.Decimal {
	if r.IsHalfDay {
		return decimal.New(5, -1)
	}
	span := calendarDay(r.LastDay()).Sub(calendarDay(r.StartDate))
	return decimal.NewFromInt(int64(span.Hours()/24) + 1)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ApprovableKind names the closed set of entities an Approval can decide.
type ApprovableKind string

const (
	ApprovableTimeOffRequest ApprovableKind = "time_off_request"
)

// ApprovableRef points an Approval at the entity it decides.
type ApprovableRef struct {
	Kind ApprovableKind
	ID   string
}

func TimeOffRequestRef(requestID string) ApprovableRef {
	return ApprovableRef{Kind: ApprovableTimeOffRequest, ID: requestID}
}

// Approval entity
type Approval struct {
	ID             string
	OrganizationID string
	Approvable     ApprovableRef

	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewApproval builds the approval created alongside request. Types that do not
// require approval are approved on creation with no approver.
func NewApproval(id string, request TimeOffRequest, t TimeOffType, now time.Time) Approval {
	a := Approval{
		ID:             id,
		OrganizationID: request.OrganizationID,
		Approvable:     TimeOffRequestRef(request.ID),
		Status:         t.InitialStatus(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if a.Status == StatusApproved {
		approvedAt := now
		a.ApprovedAt = &approvedAt
	}
	return a
}

// Decision is an approver's verdict on a pending approval.
type Decision struct {
	Status          Status
	ApproverID      string
	DecidedAt       time.Time
	RejectionReason *string
}

// PendingApproval is an approval together with its resolved approvable.
type PendingApproval struct {
	Approval Approval
	Request  TimeOffRequest
}
