// Package templates embeds the rendered site's HTML templates.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html.tmpl
var files embed.FS

// Load parses all embedded page templates.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html.tmpl")
}
