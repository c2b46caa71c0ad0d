package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
)

type PeriodHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
}

type PeriodHandlerImpl struct {
	periodService period.PeriodService
	now           func() time.Time
}

func NewPeriodHandler(periodService period.PeriodService) PeriodHandler {
	return &PeriodHandlerImpl{
		periodService: periodService,
		now:           time.Now,
	}
}

// List implements PeriodHandler.
func (h *PeriodHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	periods, err := h.periodService.List(r.Context(), tenant.OrganizationID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, periods)
}

// Current implements PeriodHandler.
func (h *PeriodHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	current, err := h.periodService.Current(r.Context(), tenant.OrganizationID, h.now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, current)
}
