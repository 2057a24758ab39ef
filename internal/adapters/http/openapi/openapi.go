// Package openapi builds the OpenAPI 3.0 document describing the pokemons API.
package openapi

import (
	"net/http"
	"sort"
	"strings"
)

// Version is the OpenAPI version the document declares.
const Version = "3.0.0"

// PokemonRef points at the shared Pokemon schema.
const PokemonRef = "#/components/schemas/Pokemon"

// Document is the top-level OpenAPI document.
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Servers    []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

// Info holds API metadata.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Server is a base URL the API is reachable at.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required" yaml:"required"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

// Response describes a single response.
type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType is a media type object with an optional schema.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema is the subset of JSON Schema the document uses.
type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	ReadOnly    bool               `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Components holds reusable schemas.
type Components struct {
	Schemas map[string]*Schema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// Route is the documentation view of one registered route.
type Route struct {
	Method    string
	Pattern   string
	Operation Operation
}

// Ref returns a schema referencing ref.
func Ref(ref string) *Schema { return &Schema{Ref: ref} }

// ArrayOf returns an array schema of items.
func ArrayOf(items *Schema) *Schema { return &Schema{Type: "array", Items: items} }

// JSON wraps schema in an application/json content map.
func JSON(schema *Schema) map[string]MediaType {
	return map[string]MediaType{"application/json": {Schema: schema}}
}

// PathID is the integer id path parameter.
func PathID(description string) Parameter {
	return Parameter{
		Name:        "id",
		In:          "path",
		Description: description,
		Required:    true,
		Schema:      &Schema{Type: "integer"},
	}
}

// Build assembles the document for routes. columns become the properties of
// the Pokemon schema next to the read-only integer id.
func Build(info Info, servers []Server, routes []Route, columns []string) *Document {
	doc := &Document{
		OpenAPI: Version,
		Info:    info,
		Servers: servers,
		Paths:   make(map[string]PathItem, len(routes)),
		Components: Components{
			Schemas: map[string]*Schema{"Pokemon": pokemonSchema(columns)},
		},
	}

	for _, rt := range routes {
		method := strings.ToLower(rt.Method)
		if method == "" {
			method = strings.ToLower(http.MethodGet)
		}
		item := doc.Paths[rt.Pattern]
		if item == nil {
			item = make(PathItem)
			doc.Paths[rt.Pattern] = item
		}
		item[method] = rt.Operation
	}
	return doc
}

func pokemonSchema(columns []string) *Schema {
	props := map[string]*Schema{
		"id": {Type: "integer", ReadOnly: true, Description: "Store-assigned identifier"},
	}
	for _, c := range columns {
		if c == "" || c == "id" {
			continue
		}
		props[c] = &Schema{}
	}
	return &Schema{Type: "object", Properties: props}
}

// Operations lists the operations of d as sorted "METHOD /path" strings.
func (d *Document) Operations() []string {
	var out []string
	for path, item := range d.Paths {
		for method := range item {
			out = append(out, strings.ToUpper(method)+" "+path)
		}
	}
	sort.Strings(out)
	return out
}
