package authz

import (
	"fmt"
	"strings"
)

// AuthType is one of the evidence kinds an endpoint may accept.
type AuthType string

const (
	AuthTypeInternal AuthType = "internal"
	AuthTypeAPIKey   AuthType = "api-key"
	AuthTypeUser     AuthType = "user"
)

// UnauthorizedMessage is the only message ever returned for a denied request.
const UnauthorizedMessage = "Unauthorized"

// precedence is the evaluation order of the allowed types, independent of
// the order a route declares them in.
//
//nolint:gochecknoglobals // fixed evaluation order
var precedence = []AuthType{AuthTypeInternal, AuthTypeAPIKey, AuthTypeUser}

// ParseAuthType accepts any casing and surrounding whitespace.
func ParseAuthType(s string) (AuthType, error) {
	switch AuthType(normalize(s)) {
	case AuthTypeInternal:
		return AuthTypeInternal, nil
	case AuthTypeAPIKey:
		return AuthTypeAPIKey, nil
	case AuthTypeUser:
		return AuthTypeUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAuthType, s)
	}
}

// AllowedTypes is the ordered, de-duplicated set of auth types a route accepts.
// The declared order is kept for documentation; evaluation always follows
// internal > api-key > user.
type AllowedTypes struct {
	ordered []AuthType
}

// NewAllowedTypes builds a set from already typed values. It fails on an empty
// set or an unknown value so misconfiguration surfaces at registration time.
func NewAllowedTypes(types ...AuthType) (AllowedTypes, error) {
	raw := make([]string, 0, len(types))
	for _, t := range types {
		raw = append(raw, string(t))
	}
	return ParseAllowedTypes(raw...)
}

// ParseAllowedTypes is NewAllowedTypes for untyped input such as config or RPC payloads.
func ParseAllowedTypes(values ...string) (AllowedTypes, error) {
	if len(values) == 0 {
		return AllowedTypes{}, ErrEmptyAllowedTypes
	}

	ordered := make([]AuthType, 0, len(values))
	for _, v := range values {
		t, err := ParseAuthType(v)
		if err != nil {
			return AllowedTypes{}, err
		}
		if containsType(ordered, t) {
			continue
		}
		ordered = append(ordered, t)
	}

	return AllowedTypes{ordered: ordered}, nil
}

// MustAllowedTypes panics on invalid input. Intended for static route tables.
func MustAllowedTypes(types ...AuthType) AllowedTypes {
	a, err := NewAllowedTypes(types...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a AllowedTypes) Has(t AuthType) bool {
	return containsType(a.ordered, t)
}

func (a AllowedTypes) Empty() bool {
	return len(a.ordered) == 0
}

// Strings returns the declared types as plain strings, e.g. for x-snapser-auth-types.
func (a AllowedTypes) Strings() []string {
	out := make([]string, 0, len(a.ordered))
	for _, t := range a.ordered {
		out = append(out, string(t))
	}
	return out
}

func (a AllowedTypes) String() string {
	return strings.Join(a.Strings(), ",")
}

// HeaderKeys names the request headers the gateway uses to describe a caller.
type HeaderKeys struct {
	Gateway  string
	AuthType string
	UserID   string
}

// DefaultHeaderKeys are the names set by the Snapser gateway.
func DefaultHeaderKeys() HeaderKeys {
	return HeaderKeys{
		Gateway:  "Gateway",
		AuthType: "Auth-Type",
		UserID:   "User-Id",
	}
}

// HeaderBundle carries the raw values of the three gateway headers. A missing
// header is the empty string.
type HeaderBundle struct {
	Gateway  string
	AuthType string
	UserID   string
}

// HeaderGetter is satisfied by http.Header and by gin's request header.
type HeaderGetter interface {
	Get(key string) string
}

// HeadersFrom reads a bundle using the configured header names.
func HeadersFrom(h HeaderGetter, keys HeaderKeys) HeaderBundle {
	return HeaderBundle{
		Gateway:  h.Get(keys.Gateway),
		AuthType: h.Get(keys.AuthType),
		UserID:   h.Get(keys.UserID),
	}
}

// Decision is the outcome of a single authorization check.
type Decision struct {
	Authorized bool
	// Branch is the allowed type that matched. Empty when unauthorized.
	Branch  AuthType
	Message string
}

func containsType(types []AuthType, t AuthType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
