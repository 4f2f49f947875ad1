package profile

import "errors"

var (
	//nolint:staticcheck // returned to clients verbatim
	ErrProfileRequired = errors.New("Profile is required")
	ErrEmptyUserID     = errors.New("user id is empty")
)
