package period

import "errors"

var (
	ErrPeriodNotFound  = errors.New("period not found")
	ErrNoCurrentPeriod = errors.New("no active period covers today")
)
