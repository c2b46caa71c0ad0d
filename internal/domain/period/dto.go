package period

type PeriodResponse struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func NewPeriodResponse(p Period) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID,
		Year:      p.Year,
		StartDate: p.Start.Format("2006-01-02"),
		EndDate:   p.End.Format("2006-01-02"),
		Status:    string(p.Status),
	}
}
