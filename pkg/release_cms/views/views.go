// Package views holds the server rendered pages of the CMS and the public
// project page.
package views

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"join": strings.Join,
	// itms-services links are rejected by the default URL sanitizer.
	"installURL": func(link string) template.URL {
		if !strings.HasPrefix(link, "itms-services://") {
			return template.URL("#")
		}
		return template.URL(link)
	},
}

// Templates parses every page. Templates are addressed by file name, e.g.
// "projects.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
