// Package web holds the HTML views and the helpers they call.
package web

import (
	"embed"
	"html"
	"html/template"
	"time"

	"library-catalog/internal/shared/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap is available to every view.
//
// Stored text is kept escaped; unescape turns it back into plain text once so
// html/template can escape it again on output.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"unescape": html.UnescapeString,
		"isoDate":  func(t *time.Time) string { return utils.ISODate(t) },
		"fmtDate":  func(t *time.Time) string { return utils.FormatDate(t) },
	}
}

// Templates parses every view. Each file defines one named template.
func Templates() (*template.Template, error) {
	return template.New("catalog").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
