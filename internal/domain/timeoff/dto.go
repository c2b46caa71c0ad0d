package timeoff

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// NewRequest is the validated input of the create operation.
type NewRequest struct {
	OrganizationID string
	EmployeeID     string
	PeriodID       string
	TimeOffTypeID  string
	StartDate      time.Time
	EndDate        *time.Time
	IsHalfDay      bool
}

type CreateTimeOffRequestRequest struct {
	EmployeeID    string  `json:"-"`
	PeriodID      string  `json:"period_id" validate:"required"`
	TimeOffTypeID string  `json:"time_off_type_id" validate:"required"`
	StartDate     string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsHalfDay     bool    `json:"is_half_day"`
}

func (r *CreateTimeOffRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if r.PeriodID != "" && !validator.IsValidUUID(r.PeriodID) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_id",
			Message: "period_id must be a valid UUID",
		})
	}
	if r.TimeOffTypeID != "" && !validator.IsValidUUID(r.TimeOffTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_off_type_id",
			Message: "time_off_type_id must be a valid UUID",
		})
	}

	// A half-day request covers its start date only
	if r.IsHalfDay && r.EndDate != nil && *r.EndDate != r.StartDate {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be empty or equal to start_date for a half-day request",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToNewRequest converts a validated request into the create input.
func (r *CreateTimeOffRequestRequest) ToNewRequest(organizationID string) (NewRequest, error) {
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		return NewRequest{}, validator.ValidationErrors{{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"}}
	}
	in := NewRequest{
		OrganizationID: organizationID,
		EmployeeID:     r.EmployeeID,
		PeriodID:       r.PeriodID,
		TimeOffTypeID:  r.TimeOffTypeID,
		StartDate:      start,
		IsHalfDay:      r.IsHalfDay,
	}
	if r.EndDate != nil && !r.IsHalfDay {
		end, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			return NewRequest{}, validator.ValidationErrors{{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"}}
		}
		in.EndDate = &end
	}
	return in, nil
}

type RejectApprovalRequest struct {
	ApprovalID string `json:"-"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

func (r *RejectApprovalRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if validator.IsEmpty(r.ApprovalID) {
		errs = append(errs, validator.ValidationError{
			Field:   "approval_id",
			Message: "approval_id is required",
		})
	}

	// required accepts whitespace, a reason must carry text
	if r.Reason != "" && validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeRequestFilter narrows an employee's request history. A zero Limit
// returns every matching request.
type EmployeeRequestFilter struct {
	Status        *Status `json:"status,omitempty"`
	TimeOffTypeID *string `json:"time_off_type_id,omitempty"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

// Validate checks the filter and applies the default page size.
func (f *EmployeeRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected, cancelled",
		})
	}

	if f.TimeOffTypeID != nil && !validator.IsValidUUID(*f.TimeOffTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "time_off_type_id",
			Message: "time_off_type_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Offset is the number of rows skipped for the filter's page.
func (f EmployeeRequestFilter) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type CreateTimeOffTypeRequest struct {
	Name                   string   `json:"name" validate:"required,max=255"`
	Description            *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive               *bool    `json:"is_active,omitempty"`
	RequiresApproval       *bool    `json:"requires_approval,omitempty"`
	RequiresJustification  bool     `json:"requires_justification"`
	BalanceMode            string   `json:"balance_mode" validate:"required,oneof=limited unlimited"`
	AllowedUnits           []string `json:"allowed_units" validate:"required,min=1,dive,oneof=day half_day hour"`
	Icon                   *string  `json:"icon,omitempty" validate:"omitempty,max=64"`
	Color                  *string  `json:"color,omitempty"`
	FallbackApprovalRoleID *string  `json:"fallback_approval_role_id,omitempty"`
}

func (r *CreateTimeOffTypeRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if r.Name != "" && validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be blank",
		})
	}

	if r.Color != nil && !validator.IsValidHexColor(*r.Color) {
		errs = append(errs, validator.ValidationError{
			Field:   "color",
			Message: "color must be in #RRGGBB format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToTimeOffType builds the entity; active and requires-approval default to true.
func (r *CreateTimeOffTypeRequest) ToTimeOffType(organizationID string) TimeOffType {
	t := TimeOffType{
		OrganizationID:         organizationID,
		Name:                   r.Name,
		Description:            r.Description,
		IsActive:               true,
		RequiresApproval:       true,
		RequiresJustification:  r.RequiresJustification,
		BalanceMode:            BalanceMode(r.BalanceMode),
		AllowedUnits:           toUnits(r.AllowedUnits),
		Icon:                   r.Icon,
		Color:                  r.Color,
		FallbackApprovalRoleID: r.FallbackApprovalRoleID,
	}
	if r.IsActive != nil {
		t.IsActive = *r.IsActive
	}
	if r.RequiresApproval != nil {
		t.RequiresApproval = *r.RequiresApproval
	}
	return t
}

type UpdateTimeOffTypeRequest struct {
	ID                     string   `json:"-"`
	Name                   *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Description            *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive               *bool    `json:"is_active,omitempty"`
	RequiresApproval       *bool    `json:"requires_approval,omitempty"`
	RequiresJustification  *bool    `json:"requires_justification,omitempty"`
	BalanceMode            *string  `json:"balance_mode,omitempty" validate:"omitempty,oneof=limited unlimited"`
	AllowedUnits           []string `json:"allowed_units,omitempty" validate:"omitempty,min=1,dive,oneof=day half_day hour"`
	Icon                   *string  `json:"icon,omitempty" validate:"omitempty,max=64"`
	Color                  *string  `json:"color,omitempty"`
	FallbackApprovalRoleID *string  `json:"fallback_approval_role_id,omitempty"`
}

func (r *UpdateTimeOffTypeRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Color != nil && !validator.IsValidHexColor(*r.Color) {
		errs = append(errs, validator.ValidationError{
			Field:   "color",
			Message: "color must be in #RRGGBB format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply copies the provided fields onto t.
func (r *UpdateTimeOffTypeRequest) Apply(t *TimeOffType) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.Description != nil {
		t.Description = r.Description
	}
	if r.IsActive != nil {
		t.IsActive = *r.IsActive
	}
	if r.RequiresApproval != nil {
		t.RequiresApproval = *r.RequiresApproval
	}
	if r.RequiresJustification != nil {
		t.RequiresJustification = *r.RequiresJustification
	}
	if r.BalanceMode != nil {
		t.BalanceMode = BalanceMode(*r.BalanceMode)
	}
	if r.AllowedUnits != nil {
		t.AllowedUnits = toUnits(r.AllowedUnits)
	}
	if r.Icon != nil {
		t.Icon = r.Icon
	}
	if r.Color != nil {
		t.Color = r.Color
	}
	if r.FallbackApprovalRoleID != nil {
		t.FallbackApprovalRoleID = r.FallbackApprovalRoleID
	}
}

func toUnits(values []string) []Unit {
	units := make([]Unit, 0, len(values))
	for _, v := range values {
		units = append(units, Unit(v))
	}
	return units
}

type TimeOffTypeResponse struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Description            *string   `json:"description,omitempty"`
	IsActive               bool      `json:"is_active"`
	RequiresApproval       bool      `json:"requires_approval"`
	RequiresJustification  bool      `json:"requires_justification"`
	BalanceMode            string    `json:"balance_mode"`
	AllowedUnits           []string  `json:"allowed_units"`
	Icon                   *string   `json:"icon,omitempty"`
	Color                  *string   `json:"color,omitempty"`
	FallbackApprovalRoleID *string   `json:"fallback_approval_role_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func NewTimeOffTypeResponse(t TimeOffType) TimeOffTypeResponse {
	units := make([]string, 0, len(t.AllowedUnits))
	for _, u := range t.AllowedUnits {
		units = append(units, string(u))
	}
	return TimeOffTypeResponse{
		ID:                     t.ID,
		Name:                   t.Name,
		Description:            t.Description,
		IsActive:               t.IsActive,
		RequiresApproval:       t.RequiresApproval,
		RequiresJustification:  t.RequiresJustification,
		BalanceMode:            string(t.BalanceMode),
		AllowedUnits:           units,
		Icon:                   t.Icon,
		Color:                  t.Color,
		FallbackApprovalRoleID: t.FallbackApprovalRoleID,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

type ApprovalResponse struct {
	ID              string     `json:"id"`
	ApprovableType  string     `json:"approvable_type"`
	ApprovableID    string     `json:"approvable_id"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewApprovalResponse(a Approval) ApprovalResponse {
	return ApprovalResponse{
		ID:              a.ID,
		ApprovableType:  string(a.Approvable.Kind),
		ApprovableID:    a.Approvable.ID,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      a.ApprovedAt,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
	}
}

type TimeOffRequestResponse struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	EmployeeName    *string           `json:"employee_name,omitempty"`
	PeriodID        string            `json:"period_id"`
	TimeOffTypeID   string            `json:"time_off_type_id"`
	TimeOffTypeName *string           `json:"time_off_type_name,omitempty"`
	Status          string            `json:"status"`
	StartDate       string            `json:"start_date"`
	EndDate         *string           `json:"end_date,omitempty"`
	IsHalfDay       bool              `json:"is_half_day"`
	Days            decimal.Decimal   `json:"days"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Approval        *ApprovalResponse `json:"approval,omitempty"`
}

func NewTimeOffRequestResponse(r TimeOffRequest) TimeOffRequestResponse {
	resp := TimeOffRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		PeriodID:        r.PeriodID,
		TimeOffTypeID:   r.TimeOffTypeID,
		TimeOffTypeName: r.TimeOffTypeName,
		Status:          string(r.Status),
		StartDate:       r.StartDate.Format(dateLayout),
		IsHalfDay:       r.IsHalfDay,
		Days:            r.Days(),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.EndDate != nil {
		end := r.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}

// WithApproval attaches the approval that decides the request.
func (r TimeOffRequestResponse) WithApproval(a Approval) TimeOffRequestResponse {
	approval := NewApprovalResponse(a)
	r.Approval = &approval
	return r
}

type PendingApprovalResponse struct {
	Approval ApprovalResponse       `json:"approval"`
	Request  TimeOffRequestResponse `json:"request"`
}

func NewPendingApprovalResponse(p PendingApproval) PendingApprovalResponse {
	return PendingApprovalResponse{
		Approval: NewApprovalResponse(p.Approval),
		Request:  NewTimeOffRequestResponse(p.Request),
	}
}

type ListTimeOffRequestResponse struct {
	TotalCount int64                    `json:"total_count"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
	Requests   []TimeOffRequestResponse `json:"requests"`
}
