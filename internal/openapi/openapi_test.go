package openapi_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/openapi"
	"gopkg.in/yaml.v3"
)

func buildDefault(t *testing.T) *openapi.Document {
	t.Helper()
	table, err := authz.NewRouteTable(authz.DefaultRoutes("byosnap-basic")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return openapi.Build(openapi.Info{Title: "BYOSnap", Version: "1.0.0"}, table)
}

func TestBuild_AuthTypesExtension(t *testing.T) {
	doc := buildDefault(t)

	game := doc.Paths["/v1/byosnap-basic/users/{user_id}/game"]
	if got := strings.Join(game["get"].AuthTypes, ","); got != "user,api-key,internal" {
		t.Errorf("unexpected GET game auth types %q", got)
	}
	if got := strings.Join(game["post"].AuthTypes, ","); got != "api-key,internal" {
		t.Errorf("unexpected POST game auth types %q", got)
	}

	del := doc.Paths["/v1/byosnap-basic/users/{user_id}"]["delete"]
	if del.OperationID != "DeleteUser" {
		t.Errorf("unexpected operation id %q", del.OperationID)
	}
	if len(del.Parameters) != 1 || del.Parameters[0].Name != "user_id" || !del.Parameters[0].Required {
		t.Errorf("expected required user_id path parameter, got %+v", del.Parameters)
	}
	if del.RequestBody != nil {
		t.Error("expected no request body for DeleteUser")
	}
}

func TestBuild_ProfileBody(t *testing.T) {
	doc := buildDefault(t)

	op := doc.Paths["/v1/byosnap-basic/users/{user_id}/profile"]["put"]
	if op.RequestBody == nil || !op.RequestBody.Required {
		t.Fatalf("expected required request body, got %+v", op.RequestBody)
	}
	if _, ok := op.Responses["400"]; !ok {
		t.Error("expected 400 response for profile update")
	}
	if _, ok := op.Responses["401"]; !ok {
		t.Error("expected 401 response for profile update")
	}
}

func TestDocument_JSONCarriesExtension(t *testing.T) {
	out, err := buildDefault(t).JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if raw["openapi"] != "3.0.3" {
		t.Errorf("unexpected openapi version %v", raw["openapi"])
	}
	if !strings.Contains(string(out), `"x-snapser-auth-types"`) {
		t.Error("expected x-snapser-auth-types in json output")
	}
}

func TestDocument_YAMLRoundTrip(t *testing.T) {
	out, err := buildDefault(t).YAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed openapi.Document
	if err := yaml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	op := parsed.Paths["/v1/byosnap-basic/users/{user_id}"]["delete"]
	if strings.Join(op.AuthTypes, ",") != "internal" {
		t.Errorf("unexpected auth types after yaml round trip %v", op.AuthTypes)
	}
}
