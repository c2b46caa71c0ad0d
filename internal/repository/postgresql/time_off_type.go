package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/timeoff"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type timeOffTypeRepositoryImpl struct {
	db *database.DB
}

func NewTimeOffTypeRepository(db *database.DB) timeoff.TimeOffTypeRepository {
	return &timeOffTypeRepositoryImpl{db: db}
}

const timeOffTypeColumns = `id, organization_id, name, description, is_active, requires_approval,
	requires_justification, balance_mode, allowed_units, icon, color, fallback_approval_role_id,
	created_at, updated_at, deleted_at`

func scanTimeOffType(row pgx.Row) (timeoff.TimeOffType, error) {
	var (
		t     timeoff.TimeOffType
		units []string
	)
	err := row.Scan(
		&t.ID,
		&t.OrganizationID,
		&t.Name,
		&t.Description,
		&t.IsActive,
		&t.RequiresApproval,
		&t.RequiresJustification,
		&t.BalanceMode,
		&units,
		&t.Icon,
		&t.Color,
		&t.FallbackApprovalRoleID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DeletedAt,
	)
	if err != nil {
		return timeoff.TimeOffType{}, err
	}
	t.AllowedUnits = make([]timeoff.Unit, 0, len(units))
	for _, u := range units {
		t.AllowedUnits = append(t.AllowedUnits, timeoff.Unit(u))
	}
	return t, nil
}

func unitStrings(units []timeoff.Unit) []string {
	values := make([]string, 0, len(units))
	for _, u := range units {
		values = append(values, string(u))
	}
	return values
}

// Create implements timeoff.TimeOffTypeRepository.
func (r *timeOffTypeRepositoryImpl) Create(ctx context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_off_types (
			id, organization_id, name, description,
			is_active, requires_approval, requires_justification, balance_mode, allowed_units,
			icon, color, fallback_approval_role_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12,
			$13, $14
		)
	`

	_, err := q.Exec(ctx, query,
		t.ID, t.OrganizationID, t.Name, t.Description,
		t.IsActive, t.RequiresApproval, t.RequiresJustification, string(t.BalanceMode), unitStrings(t.AllowedUnits),
		t.Icon, t.Color, t.FallbackApprovalRoleID,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return timeoff.TimeOffType{}, fmt.Errorf("failed to create time-off type: %w", err)
	}

	return t, nil
}

// GetByID implements timeoff.TimeOffTypeRepository. Soft-deleted types are not found.
func (r *timeOffTypeRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (timeoff.TimeOffType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeOffTypeColumns + `
		FROM time_off_types
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`

	t, err := scanTimeOffType(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeoff.TimeOffType{}, timeoff.ErrTimeOffTypeNotFound
		}
		return timeoff.TimeOffType{}, fmt.Errorf("failed to get time-off type: %w", err)
	}
	return t, nil
}

// ListByOrganization implements timeoff.TimeOffTypeRepository.
func (r *timeOffTypeRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string, includeInactive bool) ([]timeoff.TimeOffType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeOffTypeColumns + `
		FROM time_off_types
		WHERE organization_id = $1 AND deleted_at IS NULL`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off types: %w", err)
	}
	defer rows.Close()

	var types []timeoff.TimeOffType
	for rows.Next() {
		t, err := scanTimeOffType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time-off types: %w", err)
	}

	return types, nil
}

// Update implements timeoff.TimeOffTypeRepository.
func (r *timeOffTypeRepositoryImpl) Update(ctx context.Context, t timeoff.TimeOffType) (timeoff.TimeOffType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_types SET
			name = $3,
			description = $4,
			is_active = $5,
			requires_approval = $6,
			requires_justification = $7,
			balance_mode = $8,
			allowed_units = $9,
			icon = $10,
			color = $11,
			fallback_approval_role_id = $12,
			updated_at = $13
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query,
		t.ID, t.OrganizationID,
		t.Name, t.Description,
		t.IsActive, t.RequiresApproval, t.RequiresJustification, string(t.BalanceMode), unitStrings(t.AllowedUnits),
		t.Icon, t.Color, t.FallbackApprovalRoleID,
		t.UpdatedAt,
	)
	if err != nil {
		return timeoff.TimeOffType{}, fmt.Errorf("failed to update time-off type: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return timeoff.TimeOffType{}, timeoff.ErrTimeOffTypeNotFound
	}

	return t, nil
}

// SoftDelete implements timeoff.TimeOffTypeRepository.
func (r *timeOffTypeRepositoryImpl) SoftDelete(ctx context.Context, organizationID, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_types
		SET deleted_at = $3, updated_at = $3
		WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query, id, organizationID, at)
	if err != nil {
		return fmt.Errorf("failed to delete time-off type: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return timeoff.ErrTimeOffTypeNotFound
	}
	return nil
}
