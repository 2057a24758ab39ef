// Package swagger publishes the OpenAPI document and a Swagger UI page.
package swagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/okian/pokeapi/internal/adapters/http/openapi"
)

// Error constants.
var (
	ErrEncode = errors.New("encoding openapi document failed")
)

// Paths the documentation is served under.
const (
	DocsPath = "/api-docs"
	JSONPath = DocsPath + "/openapi.json"
	YAMLPath = DocsPath + "/openapi.yaml"
)

// Register attaches the documentation routes to mux.
// Routes:
//
//	GET /api-docs               -> Swagger UI HTML (also /api-docs/)
//	GET /api-docs/openapi.json  -> OpenAPI document as JSON
//	GET /api-docs/openapi.yaml  -> OpenAPI document as YAML
//
// The document is encoded once here; requests only copy bytes.
func Register(_ context.Context, mux *http.ServeMux, doc *openapi.Document) error {
	if mux == nil {
		panic("mux is nil")
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrEncode)
	}

	jsonDoc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: json: %w", ErrEncode, err)
	}
	yamlDoc, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: yaml: %w", ErrEncode, err)
	}

	var page bytes.Buffer
	if err := indexTmpl.Execute(&page, struct{ Title, SpecURL string }{doc.Info.Title, JSONPath}); err != nil {
		return fmt.Errorf("%w: html: %w", ErrEncode, err)
	}
	html := page.Bytes()

	ui := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	}
	mux.HandleFunc("GET "+DocsPath, ui)
	mux.HandleFunc("GET "+DocsPath+"/{$}", ui)

	mux.HandleFunc("GET "+JSONPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(jsonDoc)
	})

	mux.HandleFunc("GET "+YAMLPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(yamlDoc)
	})
	return nil
}

// Swagger UI from the public CDN, loading the JSON document.
var indexTmpl = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = function () {
        window.ui = SwaggerUIBundle({ url: "{{.SpecURL}}", dom_id: "#swagger-ui" });
      };
    </script>
  </body>
</html>`))
