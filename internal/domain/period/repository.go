package period

import "context"

type PeriodRepository interface {
	GetByID(ctx context.Context, organizationID, id string) (Period, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]Period, error)
}
