package dune

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/dune/schema"
)

// openapiDocument is the serialized shape of the generated OpenAPI
// description.
type openapiDocument struct {
	OpenAPI    string                       `yaml:"openapi"`
	Info       openapiInfo                  `yaml:"info"`
	Paths      map[string]map[string]opItem `yaml:"paths"`
	Components *openapiComponents           `yaml:"components,omitempty"`
}

type openapiInfo struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

type opItem struct {
	OperationID string              `yaml:"operationId,omitempty"`
	Responses   map[string]opStatus `yaml:"responses"`
}

type opStatus struct {
	Description string `yaml:"description"`
}

type openapiComponents struct {
	Schemas map[string]openapiSchema `yaml:"schemas"`
}

type openapiSchema struct {
	Type       string                     `yaml:"type"`
	Required   []string                   `yaml:"required,omitempty"`
	Properties map[string]openapiProperty `yaml:"properties"`
}

type openapiProperty struct {
	Type    string `yaml:"type"`
	Default any    `yaml:"default,omitempty"`
}

// openapiDoc assembles the document from the route table and registered
// schemas. Routes serving the document itself, the docs page, and static
// files are left out.
func (a *API) openapiDoc() *openapiDocument {
	doc := &openapiDocument{
		OpenAPI: a.cfg.openAPIVersion(),
		Info: openapiInfo{
			Title:       a.cfg.Title,
			Version:     a.cfg.Version,
			Description: a.cfg.Description,
		},
		Paths: make(map[string]map[string]opItem),
	}

	hidden := map[string]bool{
		"static":          true,
		"schema_response": true,
		"docs_response":   true,
	}

	for _, route := range a.router.Routes() {
		if route.IsWebSocket() || hidden[route.Endpoint().Name()] {
			continue
		}
		if len(route.AllowedMethods()) == 0 {
			continue
		}
		item, ok := doc.Paths[route.Pattern()]
		if !ok {
			item = make(map[string]opItem)
			doc.Paths[route.Pattern()] = item
		}
		for _, verb := range route.AllowedMethods() {
			item[strings.ToLower(verb)] = opItem{
				OperationID: route.Endpoint().Name(),
				Responses:   map[string]opStatus{"200": {Description: "OK"}},
			}
		}
	}

	if len(a.schemaNames) > 0 {
		components := &openapiComponents{Schemas: make(map[string]openapiSchema)}
		for _, name := range a.schemaNames {
			components.Schemas[name] = componentSchema(a.schemas[name])
		}
		doc.Components = components
	}

	return doc
}

// componentSchema projects a registered schema into an OpenAPI object
// schema. Only declarative Fields schemas carry enough structure to
// describe; anything else comes out as a bare object.
func componentSchema(s schema.Schema) openapiSchema {
	out := openapiSchema{Type: "object", Properties: make(map[string]openapiProperty)}

	fields, ok := s.(schema.Fields)
	if !ok {
		return out
	}

	for name, field := range fields {
		out.Properties[name] = openapiProperty{
			Type:    propertyType(field.Type),
			Default: field.Default,
		}
		if field.Required {
			out.Required = append(out.Required, name)
		}
	}
	sort.Strings(out.Required)
	return out
}

func propertyType(t schema.Type) string {
	switch t {
	case schema.Int:
		return "integer"
	case schema.Float:
		return "number"
	case schema.Bool:
		return "boolean"
	default:
		return "string"
	}
}

// schemaResponse serves the generated OpenAPI document as YAML.
func (a *API) schemaResponse(ctx context.Context, req *Request, resp *Response) error {
	body, err := yaml.Marshal(a.openapiDoc())
	if err != nil {
		return err
	}
	resp.Content(body, "application/x-yaml")
	return nil
}

// docsResponse serves a minimal HTML page rendering the OpenAPI document
// with ReDoc. It requires OpenAPIRoute to be configured.
func (a *API) docsResponse(ctx context.Context, req *Request, resp *Response) error {
	page := fmt.Sprintf(docsPage, a.cfg.Title, a.cfg.OpenAPIRoute)
	resp.HTML(page)
	return nil
}

const docsPage = `<!DOCTYPE html>
<html>
  <head>
    <title>%s</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>body { margin: 0; padding: 0; }</style>
  </head>
  <body>
    <redoc spec-url="%s"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>
`
