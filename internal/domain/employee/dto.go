package employee

type EmployeeResponse struct {
	ID               string  `json:"id"`
	UserID           *string `json:"user_id,omitempty"`
	ManagerID        *string `json:"manager_id,omitempty"`
	FullName         string  `json:"full_name"`
	EmploymentStatus string  `json:"employment_status"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		UserID:           e.UserID,
		ManagerID:        e.ManagerID,
		FullName:         e.FullName,
		EmploymentStatus: string(e.EmploymentStatus),
	}
}
