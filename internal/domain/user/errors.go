package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrOrganizationIDRequired  = errors.New("organization ID is required")
	ErrEmployeeProfileRequired = errors.New("employee profile is required")
	ErrInvalidRole             = errors.New("invalid role")
)
