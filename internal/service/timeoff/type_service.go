package timeoff

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
)

type TypeService struct {
	types  timeoff.TimeOffTypeRepository
	logger *slog.Logger
	options
}

func NewTypeService(types timeoff.TimeOffTypeRepository, logger *slog.Logger, opts ...Option) *TypeService {
	return &TypeService{
		types:   types,
		logger:  logger,
		options: newOptions(opts),
	}
}

func (s *TypeService) Create(ctx context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	now := s.now()
	t.ID = s.newID()
	t.CreatedAt = now
	t.UpdatedAt = now

	created, err := s.types.Create(ctx, t)
	if err != nil {
		return timeoff.TimeOffType{}, err
	}

	s.logger.Info("time-off type created", "organization_id", created.OrganizationID, "type_id", created.ID)
	return created, nil
}

func (s *TypeService) Get(ctx context.Context, organizationID, id string) (timeoff.TimeOffType, error) {
	return s.types.GetByID(ctx, organizationID, id)
}

func (s *TypeService) List(ctx context.Context, organizationID string, includeInactive bool) ([]timeoff.TimeOffType, error) {
	types, err := s.types.ListByOrganization(ctx, organizationID, includeInactive)
	if err != nil {
		return nil, err
	}
	return types, nil
}

// Update applies the set fields of req onto the stored type.
func (s *TypeService) Update(ctx context.Context, organizationID, id string, req timeoff.UpdateTimeOffTypeRequest) (timeoff.TimeOffType, error) {
	t, err := s.types.GetByID(ctx, organizationID, id)
	if err != nil {
		return timeoff.TimeOffType{}, err
	}

	req.Apply(&t)
	t.UpdatedAt = s.now()

	updated, err := s.types.Update(ctx, t)
	if err != nil {
		return timeoff.TimeOffType{}, err
	}
	return updated, nil
}

// Delete soft-deletes the type. Existing requests keep referencing it.
func (s *TypeService) Delete(ctx context.Context, organizationID, id string) error {
	if err := s.types.SoftDelete(ctx, organizationID, id, s.now()); err != nil {
		return err
	}
	s.logger.Info("time-off type deleted", "organization_id", organizationID, "type_id", id)
	return nil
}
