// Package view holds the server-rendered listing page.
package view

import (
	"embed"
	"html/template"
)

// IndexTemplate is the name handlers pass to gin's HTML renderer.
const IndexTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
