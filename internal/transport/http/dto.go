package http

// SuccessResponse is returned by every users endpoint on success.
type SuccessResponse struct {
	API          string `json:"api"`
	AuthType     string `json:"auth_type"`
	HeaderUserID string `json:"header_user_id"`
	PathUserID   string `json:"path_user_id"`
	Message      string `json:"message"`
	Data         any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// ProfilePayload is the body of UpdateUserProfile.
type ProfilePayload struct {
	Profile map[string]any `json:"profile" binding:"required"`
}

const notAvailable = "N/A"

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
