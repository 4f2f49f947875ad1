package authz

import "errors"

var (
	ErrEmptyAllowedTypes = errors.New("allowed auth types must not be empty")
	ErrUnknownAuthType   = errors.New("unknown auth type")
	ErrInvalidRoute      = errors.New("invalid route")
	ErrDuplicateRoute    = errors.New("duplicate route")
)
