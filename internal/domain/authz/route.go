package authz

import (
	"fmt"
	"net/http"
	"strings"
)

// Route declares an endpoint together with the evidence it accepts.
// Path uses OpenAPI templating, e.g. /v1/byosnap-basic/users/{user_id}/game.
type Route struct {
	Name        string
	Method      string
	Path        string
	Tag         string
	Summary     string
	Description string
	Allowed     AllowedTypes
	// UserIDParam names the path parameter holding the target user. Empty for
	// routes that are not user scoped.
	UserIDParam string
	Body        BodyKind
}

// BodyKind describes the JSON request body a route accepts.
type BodyKind int

const (
	BodyNone BodyKind = iota
	// BodyObject is an optional free-form JSON object.
	BodyObject
	// BodyProfile is a required {"profile": {...}} payload.
	BodyProfile
)

// RouteKey identifies a route by method and templated path.
type RouteKey struct {
	Method string
	Path   string
}

func (r Route) Key() RouteKey {
	return RouteKey{Method: r.Method, Path: r.Path}
}

// RouteTable is the validated list of routes a service exposes.
type RouteTable struct {
	routes []Route
	byName map[string]Route
}

// NewRouteTable validates every route and rejects duplicates.
func NewRouteTable(routes ...Route) (*RouteTable, error) {
	seen := make(map[RouteKey]struct{}, len(routes))
	byName := make(map[string]Route, len(routes))

	for _, r := range routes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[r.Key()]; ok {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateRoute, r.Method, r.Path)
		}
		if _, ok := byName[r.Name]; ok {
			return nil, fmt.Errorf("%w: name %s", ErrDuplicateRoute, r.Name)
		}
		seen[r.Key()] = struct{}{}
		byName[r.Name] = r
	}

	out := make([]Route, len(routes))
	copy(out, routes)
	return &RouteTable{routes: out, byName: byName}, nil
}

func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

func (t *RouteTable) Lookup(name string) (Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Paths returns each distinct templated path once, in declaration order.
func (t *RouteTable) Paths() []string {
	seen := make(map[string]struct{}, len(t.routes))
	paths := make([]string, 0, len(t.routes))
	for _, r := range t.routes {
		if _, ok := seen[r.Path]; ok {
			continue
		}
		seen[r.Path] = struct{}{}
		paths = append(paths, r.Path)
	}
	return paths
}

func (r Route) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing name for %s %s", ErrInvalidRoute, r.Method, r.Path)
	}
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return fmt.Errorf("%w: %s has unsupported method %q", ErrInvalidRoute, r.Name, r.Method)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: %s path must start with /", ErrInvalidRoute, r.Name)
	}
	if r.Allowed.Empty() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRoute, r.Name, ErrEmptyAllowedTypes)
	}
	if r.UserIDParam != "" && !strings.Contains(r.Path, "{"+r.UserIDParam+"}") {
		return fmt.Errorf("%w: %s path has no {%s} segment", ErrInvalidRoute, r.Name, r.UserIDParam)
	}
	return nil
}

const userIDParam = "user_id"

// DefaultRoutes is the BYOSnap users surface mounted under /v1/{prefix}.
func DefaultRoutes(prefix string) []Route {
	base := "/v1/" + strings.Trim(prefix, "/") + "/users/{" + userIDParam + "}"

	return []Route{
		{
			Name:        "GetGame",
			Method:      http.MethodGet,
			Path:        base + "/game",
			Tag:         "Game",
			Summary:     "Game APIs",
			Description: "This API will work with User and Api-Key auth. With a valid user token and api-key, you can access this API.",
			Allowed:     MustAllowedTypes(AuthTypeUser, AuthTypeAPIKey, AuthTypeInternal),
			UserIDParam: userIDParam,
		},
		{
			Name:        "SaveGame",
			Method:      http.MethodPost,
			Path:        base + "/game",
			Tag:         "Game",
			Summary:     "Game APIs",
			Description: "This API will work only with Api-Key auth. You can access this API with a valid api-key.",
			Allowed:     MustAllowedTypes(AuthTypeAPIKey, AuthTypeInternal),
			UserIDParam: userIDParam,
			Body:        BodyObject,
		},
		{
			Name:        "DeleteUser",
			Method:      http.MethodDelete,
			Path:        base,
			Tag:         "User",
			Summary:     "User APIs",
			Description: "This API will work only when the call is coming from within the Snapend.",
			Allowed:     MustAllowedTypes(AuthTypeInternal),
			UserIDParam: userIDParam,
		},
		{
			Name:        "UpdateUserProfile",
			Method:      http.MethodPut,
			Path:        base + "/profile",
			Tag:         "User",
			Summary:     "User APIs",
			Description: "This API will work for all auth types.",
			Allowed:     MustAllowedTypes(AuthTypeUser, AuthTypeAPIKey, AuthTypeInternal),
			UserIDParam: userIDParam,
			Body:        BodyProfile,
		},
	}
}
