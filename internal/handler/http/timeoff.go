package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TimeOffHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	GetType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	DeleteType(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)

	ListPendingApprovals(w http.ResponseWriter, r *http.Request)
	GetApproval(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type TimeOffHandlerImpl struct {
	timeOffService timeoff.TimeOffService
}

func NewTimeOffHandler(timeOffService timeoff.TimeOffService) TimeOffHandler {
	return &TimeOffHandlerImpl{
		timeOffService: timeOffService,
	}
}

// tenantFrom reads the tenant set by middleware.RequireTenant.
func tenantFrom(w http.ResponseWriter, r *http.Request) (middleware.Tenant, bool) {
	tenant, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return middleware.Tenant{}, false
	}
	return tenant, true
}

// CreateType implements TimeOffHandler.
func (h *TimeOffHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req timeoff.CreateTimeOffTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.timeOffService.CreateType(r.Context(), tenant.OrganizationID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off type created successfully", created)
}

// UpdateType implements TimeOffHandler.
func (h *TimeOffHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req timeoff.UpdateTimeOffTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.timeOffService.UpdateType(r.Context(), tenant.OrganizationID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off type updated successfully", updated)
}

// GetType implements TimeOffHandler.
func (h *TimeOffHandlerImpl) GetType(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	t, err := h.timeOffService.GetType(r.Context(), tenant.OrganizationID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, t)
}

// ListTypes implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	includeInactive := false
	if v := r.URL.Query().Get("include_inactive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{Field: "include_inactive", Message: "include_inactive must be a boolean"}})
			return
		}
		includeInactive = parsed
	}

	types, err := h.timeOffService.ListTypes(r.Context(), tenant.OrganizationID, includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

// DeleteType implements TimeOffHandler.
func (h *TimeOffHandlerImpl) DeleteType(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	if err := h.timeOffService.DeleteType(r.Context(), tenant.OrganizationID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off type deleted successfully", nil)
}

// CreateRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req timeoff.CreateTimeOffRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	// The requester is always the caller
	req.EmployeeID = tenant.Actor.EmployeeID

	created, err := h.timeOffService.CreateRequest(r.Context(), tenant.OrganizationID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off request submitted successfully", created)
}

// GetMyRequests implements TimeOffHandler.
func (h *TimeOffHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	filter, err := parseRequestFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := h.timeOffService.ListMyRequests(r.Context(), tenant.OrganizationID, tenant.Actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Requests, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

func parseRequestFilter(r *http.Request) (timeoff.EmployeeRequestFilter, error) {
	q := r.URL.Query()
	var (
		filter timeoff.EmployeeRequestFilter
		errs   validator.ValidationErrors
	)

	if v := q.Get("status"); v != "" {
		status := timeoff.Status(v)
		filter.Status = &status
	}
	if v := q.Get("time_off_type_id"); v != "" {
		filter.TimeOffTypeID = &v
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a number"})
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a number"})
		}
		filter.Limit = limit
	}

	if len(errs) > 0 {
		return timeoff.EmployeeRequestFilter{}, errs
	}
	return filter, nil
}

// GetRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	request, err := h.timeOffService.GetRequest(r.Context(), tenant.OrganizationID, tenant.Actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// CancelRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	cancelled, err := h.timeOffService.CancelRequest(r.Context(), tenant.OrganizationID, tenant.Actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request cancelled successfully", cancelled)
}

// DeleteRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	if err := h.timeOffService.DeleteRequest(r.Context(), tenant.OrganizationID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request deleted successfully", nil)
}

// ListPendingApprovals implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	pending, err := h.timeOffService.ListPendingApprovals(r.Context(), tenant.OrganizationID, tenant.Actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, pending)
}

// GetApproval implements TimeOffHandler.
func (h *TimeOffHandlerImpl) GetApproval(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	approval, err := h.timeOffService.GetApproval(r.Context(), tenant.OrganizationID, tenant.Actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, approval)
}

// ApproveRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	approval, err := h.timeOffService.ApproveRequest(r.Context(), tenant.OrganizationID, tenant.Actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request approved successfully", approval)
}

// RejectRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req timeoff.RejectApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ApprovalID = chi.URLParam(r, "id")

	approval, err := h.timeOffService.RejectRequest(r.Context(), tenant.OrganizationID, tenant.Actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request rejected successfully", approval)
}
