package authz

// Decider turns gateway headers into an authorization decision. It holds no
// state and is safe for concurrent use.
type Decider interface {
	Decide(allowed AllowedTypes, headers HeaderBundle, routeUserID string) Decision
}

type decider struct{}

func NewDecider() Decider {
	return decider{}
}

// Decide evaluates the allowed types in the order internal, api-key, user.
//
// An internal call only ever matches the internal branch and an api-key call
// never falls through to the user branch, so a gateway-internal request to an
// api-key-only route is denied.
func (decider) Decide(allowed AllowedTypes, headers HeaderBundle, routeUserID string) Decision {
	isInternal := normalize(headers.Gateway) == string(AuthTypeInternal)
	isAPIKey := normalize(headers.AuthType) == string(AuthTypeAPIKey)

	userID := normalize(headers.UserID)
	isOwner := userID != "" && userID == normalize(routeUserID)

	for _, t := range precedence {
		if !allowed.Has(t) {
			continue
		}

		var matched bool
		switch t {
		case AuthTypeInternal:
			matched = isInternal
		case AuthTypeAPIKey:
			matched = !isInternal && isAPIKey
		case AuthTypeUser:
			matched = !isInternal && !isAPIKey && isOwner
		}

		if matched {
			return Decision{Authorized: true, Branch: t}
		}
	}

	return Decision{Authorized: false, Message: UnauthorizedMessage}
}

// TargetUser resolves the user a request acts on. Routes without a user path
// parameter target the caller named in the user id header.
func TargetUser(pathUserID string, hasPathParam bool, headers HeaderBundle) string {
	if hasPathParam {
		return pathUserID
	}
	return headers.UserID
}
