package handler

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/vermy/vermy/docs"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
{{- if eq .Viewer "swagger"}}
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
    <style>body { margin: 0; } .swagger-ui .topbar { display: none; }</style>
{{- end}}
</head>
<body>
{{- if eq .Viewer "swagger"}}
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function () {
            window.ui = SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: "#swagger-ui",
                deepLinking: true,
                persistAuthorization: true,
                displayRequestDuration: true,
                filter: true
            });
        };
    </script>
{{- else}}
    <redoc spec-url="{{.SpecURL}}"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
{{- end}}
</body>
</html>`))

// DocsHandler serves the OpenAPI description and two viewers for it
type DocsHandler struct {
	pages map[string][]byte
}

// NewDocsHandler renders the viewer pages once
func NewDocsHandler(title string) *DocsHandler {
	h := &DocsHandler{pages: make(map[string][]byte, 2)}
	for _, viewer := range []string{"swagger", "redoc"} {
		var buf bytes.Buffer
		err := docsPage.Execute(&buf, map[string]string{
			"Title":   title,
			"Viewer":  viewer,
			"SpecURL": docs.OpenAPIPath,
		})
		if err != nil {
			panic(err)
		}
		h.pages[viewer] = buf.Bytes()
	}
	return h
}

// RegisterRoutes registers documentation routes
func (h *DocsHandler) RegisterRoutes(app *fiber.App) {
	app.Get(docs.OpenAPIPath, h.Spec)
	app.Get("/docs", h.page("swagger"))
	app.Get("/redoc", h.page("redoc"))
}

// Spec handles GET /openapi.yaml
func (h *DocsHandler) Spec(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/yaml")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(docs.OpenAPI)
}

func (h *DocsHandler) page(viewer string) fiber.Handler {
	body := h.pages[viewer]
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(body)
	}
}
