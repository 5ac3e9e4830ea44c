// Package templates renders the HTML pages from templates embedded in
// the binary. Each page is parsed together with the shared base layout
// at startup so a malformed template fails fast.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/mboer/treasurehunt/internal/web/middleware"
)

//go:embed pages/*.html base.html
var files embed.FS

// PageData carries the fields the base layout renders on every page.
type PageData struct {
	Title      string
	PlayerName string
	Flash      *middleware.FlashMessage
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"index",
	"start",
	"clue",
	"error",
	"leaderboard",
	"admin_login",
	"admin_dashboard",
}

// New parses all embedded pages against the base layout.
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(files, "base.html", "pages/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
