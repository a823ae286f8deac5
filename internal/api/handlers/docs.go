package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	_ "embed"
)

// OpenAPISpec is the API description served at /api/docs/openapi.yaml.
//
//go:embed docs/openapi.yaml
var OpenAPISpec []byte

// DocsHandler serves the API documentation.
type DocsHandler struct {
	logger      *slog.Logger
	swaggerHTML *template.Template
}

// NewDocsHandler creates a new docs handler.
func NewDocsHandler(logger *slog.Logger) *DocsHandler {
	return &DocsHandler{
		logger:      logger,
		swaggerHTML: template.Must(template.New("swagger").Parse(swaggerUITemplate)),
	}
}

// ServeSwaggerUI serves the Swagger UI at /api/docs.
func (h *DocsHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		SpecURL string
		Title   string
	}{
		SpecURL: "/api/docs/openapi.yaml",
		Title:   "Event Planner API",
	}

	if err := h.swaggerHTML.Execute(w, data); err != nil {
		h.logger.Error("failed to render Swagger UI", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ServeOpenAPISpec serves the embedded OpenAPI document.
func (h *DocsHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(OpenAPISpec)
}

// swaggerUITemplate is the HTML template for Swagger UI.
const swaggerUITemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout",
                persistAuthorization: true,
                displayRequestDuration: true,
                filter: true,
                tryItOutEnabled: true
            });
            window.ui = ui;
        };
    </script>
</body>
</html>`
