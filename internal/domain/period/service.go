package period

import (
	"context"
	"time"
)

type PeriodService interface {
	List(ctx context.Context, organizationID string) ([]PeriodResponse, error)
	Current(ctx context.Context, organizationID string, today time.Time) (PeriodResponse, error)
}
