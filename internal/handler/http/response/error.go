package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Not found
	case errors.Is(err, timeoff.ErrTimeOffRequestNotFound):
		NotFound(w, "Time-off request not found")
	case errors.Is(err, timeoff.ErrApprovalNotFound):
		NotFound(w, "Approval not found")
	case errors.Is(err, timeoff.ErrTimeOffTypeNotFound):
		NotFound(w, "Time-off type not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Period not found")
	case errors.Is(err, period.ErrNoCurrentPeriod):
		NotFound(w, "No active period covers today")

	// State machine
	case errors.Is(err, timeoff.ErrApprovalAlreadyDecided):
		Conflict(w, "Approval already decided")
	case errors.Is(err, timeoff.ErrInvalidTransition):
		Conflict(w, "Invalid status transition")

	// Rejected input
	case errors.Is(err, timeoff.ErrTimeOffTypeInactive):
		BadRequest(w, "Time-off type is inactive", nil)
	case errors.Is(err, timeoff.ErrUnitNotAllowed):
		BadRequest(w, "Time-off type does not allow this unit", nil)
	case errors.Is(err, timeoff.ErrPeriodClosed):
		BadRequest(w, "Period is closed", nil)
	case errors.Is(err, timeoff.ErrOutsidePeriod):
		BadRequest(w, "Start date is outside the period", nil)
	case errors.Is(err, timeoff.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, timeoff.ErrEndDateRequired):
		ValidationError(w, map[string]string{"end_date": "end_date is required"})
	case errors.Is(err, timeoff.ErrRejectionReasonRequired):
		ValidationError(w, map[string]string{"reason": "reason is required"})

	// Authorization
	case errors.Is(err, timeoff.ErrNotApprover):
		Forbidden(w, "Only the requester's manager may decide this approval")
	case errors.Is(err, timeoff.ErrNotRequestOwner):
		Forbidden(w, "Not allowed to act on this request")
	case errors.Is(err, user.ErrEmployeeProfileRequired):
		Forbidden(w, "An employee profile is required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrOrganizationIDRequired):
		Unauthorized(w, "Organization is required")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
