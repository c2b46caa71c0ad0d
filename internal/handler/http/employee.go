package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	GetMe(w http.ResponseWriter, r *http.Request)
	ListMyDirectReports(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{
		employeeService: employeeService,
	}
}

// GetMe implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if tenant.Actor.EmployeeID == "" {
		response.NotFound(w, "Employee not found")
		return
	}

	e, err := h.employeeService.GetEmployee(r.Context(), tenant.OrganizationID, tenant.Actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employee.NewEmployeeResponse(e))
}

// ListMyDirectReports implements EmployeeHandler.
func (h *EmployeeHandlerImpl) ListMyDirectReports(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	reports, err := h.employeeService.ListDirectReports(r.Context(), tenant.OrganizationID, tenant.Actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, reports)
}
