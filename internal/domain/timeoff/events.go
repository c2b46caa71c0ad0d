package timeoff

const (
	EventRequested = "time_off.requested"
	EventApproved  = "time_off.approved"
	EventRejected  = "time_off.rejected"
	EventCancelled = "time_off.cancelled"
)

// EventPayload is the data pushed to live clients when a request changes.
type EventPayload struct {
	RequestID  string `json:"request_id"`
	ApprovalID string `json:"approval_id,omitempty"`
	EmployeeID string `json:"employee_id"`
	Status     Status `json:"status"`
}
