package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) period.PeriodRepository {
	return &periodRepositoryImpl{db: db}
}

const periodColumns = `id, organization_id, year, start_date, end_date, status, created_at, updated_at`

func scanPeriod(row pgx.Row) (period.Period, error) {
	var p period.Period
	err := row.Scan(
		&p.ID,
		&p.OrganizationID,
		&p.Year,
		&p.Start,
		&p.End,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// GetByID implements period.PeriodRepository.
func (r *periodRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + `
		FROM periods
		WHERE id = $1 AND organization_id = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.Period{}, period.ErrPeriodNotFound
		}
		return period.Period{}, fmt.Errorf("failed to get period: %w", err)
	}
	return p, nil
}

// ListByOrganization implements period.PeriodRepository.
func (r *periodRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string) ([]period.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + `
		FROM periods
		WHERE organization_id = $1
		ORDER BY year DESC`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []period.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate periods: %w", err)
	}

	return periods, nil
}
