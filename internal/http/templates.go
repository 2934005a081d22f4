package http

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"glyphs": utils.RatingGlyphs,
	"add": func(a, b int) int {
		return a + b
	},
	"deref": func(id *uint) uint {
		if id == nil {
			return 0
		}
		return *id
	},
}

// loadTemplates parses the page templates from dir, or the embedded set when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs)
	if dir == "" {
		return tmpl.ParseFS(templateFS, "templates/*.html")
	}

	parsed, err := tmpl.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates in %s: %w", dir, err)
	}
	return parsed, nil
}

// staticFiles serves dir, or the embedded assets when dir is empty.
func staticFiles(dir string) http.FileSystem {
	if dir != "" {
		return http.Dir(dir)
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
