package timeoff

import (
	"errors"
	"fmt"
)

var (
	ErrTimeOffRequestNotFound = errors.New("time-off request not found")
	ErrApprovalNotFound       = errors.New("approval not found")
	ErrTimeOffTypeNotFound    = errors.New("time-off type not found")
	ErrTimeOffTypeInactive    = errors.New("time-off type is inactive")
	ErrUnitNotAllowed         = errors.New("time-off type does not allow this unit")

	ErrEndDateRequired  = errors.New("end date is required for a full-day request")
	ErrInvalidDateRange = errors.New("end date must be on or after start date")
	ErrPeriodClosed     = errors.New("period is closed")
	ErrOutsidePeriod    = errors.New("start date is outside the period")

	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrApprovalAlreadyDecided  = fmt.Errorf("%w: approval already decided", ErrInvalidTransition)
	ErrRejectionReasonRequired = errors.New("rejection reason is required")

	ErrNotApprover      = errors.New("employee is not allowed to decide this approval")
	ErrNotRequestOwner  = errors.New("employee is not allowed to act on this request")
	ErrTypeNameRequired = errors.New("time-off type name is required")
)
