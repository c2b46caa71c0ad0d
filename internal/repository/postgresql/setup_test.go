package postgresql_test

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const (
	orgID      = "0190a1b2-0000-7000-8000-0000000000aa"
	otherOrgID = "0190a1b2-0000-7000-8000-0000000000bb"
	employeeID = "0190a1b2-0000-7000-8000-000000000e01"
	managerID  = "0190a1b2-0000-7000-8000-000000000e02"
	periodID   = "0190a1b2-0000-7000-8000-000000000c01"
	typeID     = "0190a1b2-0000-7000-8000-000000000d01"
	requestID  = "0190a1b2-0000-7000-8000-000000000f01"
	approvalID = "0190a1b2-0000-7000-8000-000000000a01"
)

var fixedNow = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

// newMockDB returns a database.DB backed by pgxmock. Unmet expectations fail the test.
func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return mock, database.New(mock)
}

func strPtr(s string) *string {
	return &s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
