package grpc

const (
	ServiceName    = "byosnap.authz.v1.AuthorizationService"
	CheckProcedure = "/" + ServiceName + "/Check"
)

// CheckRequest describes a call another snap wants authorized. Header values
// are passed through exactly as the gateway set them.
type CheckRequest struct {
	AllowedTypes []string `json:"allowed_types"`
	Gateway      string   `json:"gateway,omitempty"`
	AuthType     string   `json:"auth_type,omitempty"`
	UserID       string   `json:"user_id,omitempty"`
	// RouteUserID is the user the call acts on. When empty the caller's own
	// user id is the target.
	RouteUserID string `json:"route_user_id,omitempty"`
}

type CheckResponse struct {
	Authorized bool   `json:"authorized"`
	Branch     string `json:"branch,omitempty"`
	Message    string `json:"message,omitempty"`
}
