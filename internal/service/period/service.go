package period

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
)

type PeriodServiceImpl struct {
	periodRepo period.PeriodRepository
}

func NewPeriodService(periodRepo period.PeriodRepository) period.PeriodService {
	return &PeriodServiceImpl{
		periodRepo: periodRepo,
	}
}

// List implements period.PeriodService.
func (s *PeriodServiceImpl) List(ctx context.Context, organizationID string) ([]period.PeriodResponse, error) {
	periods, err := s.periodRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}

	resp := make([]period.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, period.NewPeriodResponse(p))
	}
	return resp, nil
}

// Current returns the active period whose window contains today.
func (s *PeriodServiceImpl) Current(ctx context.Context, organizationID string, today time.Time) (period.PeriodResponse, error) {
	periods, err := s.periodRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return period.PeriodResponse{}, fmt.Errorf("failed to list periods: %w", err)
	}

	for _, p := range periods {
		if p.IsActive() && p.Contains(today) {
			return period.NewPeriodResponse(p), nil
		}
	}
	return period.PeriodResponse{}, period.ErrNoCurrentPeriod
}
