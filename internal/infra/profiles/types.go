package profiles

import (
	"errors"
	"fmt"
)

// ErrNoResponse means the Profiles service could not be reached at all.
var ErrNoResponse = errors.New("no response from profiles service")

// UpsertProfileRequest is the body of the Profiles internal upsert call.
type UpsertProfileRequest struct {
	Profile map[string]any `json:"profile"`
}

// StatusError carries a non-2xx answer from the Profiles service so callers
// can relay status and body unchanged.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("profiles service returned status %d", e.StatusCode)
}
