package docs

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

var uiTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`))

// Handler serves a pre-rendered document.
type Handler struct {
	json []byte
	yaml []byte
	html []byte
}

// NewHandler renders doc once. prefix is where the handler is mounted, e.g. "/api-docs".
func NewHandler(doc *openapi3.T, prefix string) (*Handler, error) {
	jsonDoc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render openapi json: %w", err)
	}
	yamlDoc, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render openapi yaml: %w", err)
	}

	var page strings.Builder
	err = uiTemplate.Execute(&page, struct {
		Title   string
		SpecURL string
	}{Title: doc.Info.Title, SpecURL: strings.TrimSuffix(prefix, "/") + "/openapi.json"})
	if err != nil {
		return nil, fmt.Errorf("render swagger ui: %w", err)
	}

	return &Handler{json: jsonDoc, yaml: yamlDoc, html: []byte(page.String())}, nil
}

// Register mounts the UI and the raw documents on router.
func (h *Handler) Register(router fiber.Router) {
	router.Get("/", h.UI)
	router.Get("/openapi.json", h.JSON)
	router.Get("/openapi.yaml", h.YAML)
}

// UI GET /api-docs.
func (h *Handler) UI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(h.html)
}

// JSON GET /api-docs/openapi.json.
func (h *Handler) JSON(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(h.json)
}

// YAML GET /api-docs/openapi.yaml.
func (h *Handler) YAML(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.Send(h.yaml)
}
