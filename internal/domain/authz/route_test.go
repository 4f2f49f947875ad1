package authz_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
)

func TestDefaultRoutes_Valid(t *testing.T) {
	table, err := authz.NewRouteTable(authz.DefaultRoutes("byosnap-basic")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table.Routes()) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(table.Routes()))
	}

	del, ok := table.Lookup("DeleteUser")
	if !ok {
		t.Fatal("missing DeleteUser route")
	}
	if del.Path != "/v1/byosnap-basic/users/{user_id}" || del.Method != http.MethodDelete {
		t.Errorf("unexpected DeleteUser route %s %s", del.Method, del.Path)
	}
	if got := del.Allowed.String(); got != "internal" {
		t.Errorf("expected internal only, got %q", got)
	}

	save, _ := table.Lookup("SaveGame")
	if save.Allowed.Has(authz.AuthTypeUser) {
		t.Error("SaveGame must not accept user auth")
	}

	if got := len(table.Paths()); got != 3 {
		t.Errorf("expected 3 distinct paths, got %d", got)
	}
}

func TestDefaultRoutes_TrimsPrefixSlashes(t *testing.T) {
	routes := authz.DefaultRoutes("/byosnap-inter/")
	if routes[0].Path != "/v1/byosnap-inter/users/{user_id}/game" {
		t.Errorf("unexpected path %q", routes[0].Path)
	}
}

func TestNewRouteTable_RejectsEmptyAllowedTypes(t *testing.T) {
	_, err := authz.NewRouteTable(authz.Route{
		Name:   "Broken",
		Method: http.MethodGet,
		Path:   "/broken",
	})
	if !errors.Is(err, authz.ErrEmptyAllowedTypes) {
		t.Errorf("expected ErrEmptyAllowedTypes, got %v", err)
	}
	if !errors.Is(err, authz.ErrInvalidRoute) {
		t.Errorf("expected ErrInvalidRoute, got %v", err)
	}
}

func TestNewRouteTable_RejectsDuplicates(t *testing.T) {
	r := authz.Route{
		Name:    "One",
		Method:  http.MethodGet,
		Path:    "/one",
		Allowed: internalOnly,
	}
	dup := r
	dup.Name = "Two"

	if _, err := authz.NewRouteTable(r, dup); !errors.Is(err, authz.ErrDuplicateRoute) {
		t.Errorf("expected ErrDuplicateRoute, got %v", err)
	}
}

func TestRoute_Validate(t *testing.T) {
	tests := []struct {
		name  string
		route authz.Route
	}{
		{"missing name", authz.Route{Method: http.MethodGet, Path: "/x", Allowed: internalOnly}},
		{"bad method", authz.Route{Name: "X", Method: "TRACE", Path: "/x", Allowed: internalOnly}},
		{"relative path", authz.Route{Name: "X", Method: http.MethodGet, Path: "x", Allowed: internalOnly}},
		{"missing param segment", authz.Route{Name: "X", Method: http.MethodGet, Path: "/x", Allowed: internalOnly, UserIDParam: "user_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.route.Validate(); !errors.Is(err, authz.ErrInvalidRoute) {
				t.Errorf("expected ErrInvalidRoute, got %v", err)
			}
		})
	}
}
