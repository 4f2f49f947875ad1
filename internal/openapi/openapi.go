// Package openapi renders the route table as an OpenAPI 3.0 document. The
// x-snapser-auth-types extension on each operation tells the Snapser gateway
// which auth types the operation accepts.
package openapi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"gopkg.in/yaml.v3"
)

const (
	successSchema = "SuccessResponseSchema"
	errorSchema   = "ErrorResponseSchema"
	profileSchema = "ProfilePayloadSchema"
	refPrefix     = "#/components/schemas/"
)

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

type Document struct {
	OpenAPI    string                          `json:"openapi" yaml:"openapi"`
	Info       Info                            `json:"info" yaml:"info"`
	Paths      map[string]map[string]Operation `json:"paths" yaml:"paths"`
	Components Components                      `json:"components" yaml:"components"`
}

type Operation struct {
	OperationID string              `json:"operationId" yaml:"operationId"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
	AuthTypes   []string            `json:"x-snapser-auth-types" yaml:"x-snapser-auth-types"`
}

type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      Schema `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Ref                  string            `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type                 string            `json:"type,omitempty" yaml:"type,omitempty"`
	Properties           map[string]Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string          `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties *bool             `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

type Components struct {
	Schemas map[string]Schema `json:"schemas" yaml:"schemas"`
}

// Build creates one operation per route. Routes without a body get no
// requestBody; user scoped routes get a required path parameter.
func Build(info Info, table *authz.RouteTable) *Document {
	doc := &Document{
		OpenAPI:    "3.0.3",
		Info:       info,
		Paths:      make(map[string]map[string]Operation),
		Components: Components{Schemas: schemas()},
	}

	for _, r := range table.Routes() {
		op := Operation{
			OperationID: r.Name,
			Summary:     r.Summary,
			Description: r.Description,
			AuthTypes:   r.Allowed.Strings(),
			Responses: map[string]Response{
				"200": jsonResponse("Successful Response", successSchema),
				"401": jsonResponse("Unauthorized", errorSchema),
			},
		}
		if r.Tag != "" {
			op.Tags = []string{r.Tag}
		}
		if r.UserIDParam != "" {
			op.Parameters = append(op.Parameters, Parameter{
				Name:        r.UserIDParam,
				In:          "path",
				Required:    true,
				Description: "Unique identifier of the user",
				Schema:      Schema{Type: "string"},
			})
		}
		if body := requestBodyFor(r.Body); body != nil {
			op.RequestBody = body
			op.Responses["400"] = jsonResponse("Bad Request", errorSchema)
		}

		method := strings.ToLower(r.Method)
		if doc.Paths[r.Path] == nil {
			doc.Paths[r.Path] = make(map[string]Operation)
		}
		doc.Paths[r.Path][method] = op
	}

	return doc
}

func requestBodyFor(kind authz.BodyKind) *RequestBody {
	var body RequestBody
	switch kind {
	case authz.BodyObject:
		body.Content = map[string]MediaType{
			"application/json": {Schema: Schema{Type: "object", AdditionalProperties: boolPtr(true)}},
		}
	case authz.BodyProfile:
		body.Required = true
		body.Content = map[string]MediaType{
			"application/json": {Schema: Schema{Ref: refPrefix + profileSchema}},
		}
	default:
		return nil
	}
	return &body
}

func jsonResponse(description, schema string) Response {
	return Response{
		Description: description,
		Content: map[string]MediaType{
			"application/json": {Schema: Schema{Ref: refPrefix + schema}},
		},
	}
}

func schemas() map[string]Schema {
	str := Schema{Type: "string"}
	return map[string]Schema{
		successSchema: {
			Type: "object",
			Properties: map[string]Schema{
				"api":            str,
				"auth_type":      str,
				"header_user_id": str,
				"path_user_id":   str,
				"message":        str,
				"data":           {Type: "object", AdditionalProperties: boolPtr(true)},
			},
			Required: []string{"api", "auth_type", "header_user_id", "path_user_id", "message"},
		},
		errorSchema: {
			Type:       "object",
			Properties: map[string]Schema{"error_message": str},
			Required:   []string{"error_message"},
		},
		profileSchema: {
			Type: "object",
			Properties: map[string]Schema{
				"profile": {Type: "object", AdditionalProperties: boolPtr(true)},
			},
			Required: []string{"profile"},
		},
	}
}

func (d *Document) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal openapi json: %w", err)
	}
	return out, nil
}

func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to marshal openapi yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush openapi yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func boolPtr(b bool) *bool {
	return &b
}
