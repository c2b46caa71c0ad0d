package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/period"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var periodCols = []string{"id", "organization_id", "year", "start_date", "end_date", "status", "created_at", "updated_at"}

func TestPeriodRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("FROM periods").
			WithArgs(periodID, orgID).
			WillReturnRows(pgxmock.NewRows(periodCols).
				AddRow(periodID, orgID, 2024, day(2024, 1, 1), day(2024, 12, 31), period.StatusActive, fixedNow, fixedNow))

		repo := postgresql.NewPeriodRepository(db)
		p, err := repo.GetByID(context.Background(), orgID, periodID)

		require.NoError(t, err)
		assert.Equal(t, 2024, p.Year)
		assert.True(t, p.IsActive())
		assert.True(t, p.Contains(day(2024, 6, 1)))
	})

	t.Run("not found", func(t *testing.T) {
		mock, db := newMockDB(t)
		mock.ExpectQuery("FROM periods").
			WithArgs(periodID, orgID).
			WillReturnError(pgx.ErrNoRows)

		repo := postgresql.NewPeriodRepository(db)
		_, err := repo.GetByID(context.Background(), orgID, periodID)

		assert.ErrorIs(t, err, period.ErrPeriodNotFound)
	})
}

func TestPeriodRepository_ListByOrganization(t *testing.T) {
	mock, db := newMockDB(t)
	mock.ExpectQuery("ORDER BY year DESC").
		WithArgs(orgID).
		WillReturnRows(pgxmock.NewRows(periodCols).
			AddRow(periodID, orgID, 2024, day(2024, 1, 1), day(2024, 12, 31), period.StatusActive, fixedNow, fixedNow).
			AddRow("0190a1b2-0000-7000-8000-000000000c00", orgID, 2023, day(2023, 1, 1), day(2023, 12, 31), period.StatusClosed, fixedNow, fixedNow))

	repo := postgresql.NewPeriodRepository(db)
	periods, err := repo.ListByOrganization(context.Background(), orgID)

	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, period.StatusClosed, periods[1].Status)
}
