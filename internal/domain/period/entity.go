package period

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Period is an organization's fiscal window. One row per (organization, year).
type Period struct {
	ID             string
	OrganizationID string
	Year           int
	Start          time.Time
	End            time.Time
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Contains reports whether day falls inside [Start, End], compared by calendar date.
func (p Period) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(p.Start)) && !d.After(truncateDay(p.End))
}

func (p Period) IsActive() bool {
	return p.Status == StatusActive
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
