package lead

import "errors"

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrDuplicateEmail  = errors.New("lead with this email already exists")
	ErrMalformedFilter = errors.New("invalid filters format")
)
