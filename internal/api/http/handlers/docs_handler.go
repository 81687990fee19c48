package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/openapi"
)

//go:embed templates/swagger.html
var templatesFS embed.FS

const yamlMIME = "application/vnd.oai.openapi"

var swaggerPage = template.Must(template.ParseFS(templatesFS, "templates/swagger.html"))

// DocsHandler serves the generated schema and the Swagger UI page.
type DocsHandler struct {
	schemaJSON []byte
	schemaYAML []byte
	page       []byte
}

// NewDocsHandler renders the document once; it does not change at runtime.
func NewDocsHandler(doc *openapi.Document, schemaURL string) (*DocsHandler, error) {
	schemaJSON, err := doc.JSON()
	if err != nil {
		return nil, err
	}
	schemaYAML, err := doc.YAML()
	if err != nil {
		return nil, err
	}
	var page bytes.Buffer
	if err := swaggerPage.Execute(&page, struct {
		Title     string
		SchemaURL string
	}{Title: doc.Info.Title, SchemaURL: schemaURL}); err != nil {
		return nil, err
	}
	return &DocsHandler{schemaJSON: schemaJSON, schemaYAML: schemaYAML, page: page.Bytes()}, nil
}

// Schema handles GET /api/schema/. YAML unless ?format=json or the client
// only accepts JSON.
func (h *DocsHandler) Schema(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format"))
	if format == "" && c.Accepts(yamlMIME, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		format = "json"
	}
	if format == "json" {
		c.Set(fiber.HeaderContentType, "application/vnd.oai.openapi+json")
		return c.Send(h.schemaJSON)
	}
	c.Set(fiber.HeaderContentType, yamlMIME+"; charset=utf-8")
	return c.Send(h.schemaYAML)
}

// UI handles GET /api/docs/.
func (h *DocsHandler) UI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(h.page)
}
