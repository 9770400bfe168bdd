// Package views holds the server-rendered pages and their static assets.
package views

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page and partial into one set. Pages are addressed
// by file name, e.g. "home.tmpl".
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}

// MustTemplates is Templates for router setup, where a broken template is a
// programming error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static returns the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
