package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes page templates inside the shared base layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(mediaURL string) (*Renderer, error) {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"subtotal": func(it models.OrderItem) string {
			return it.Subtotal().StringFixed(2)
		},
		"media": func(p string) string {
			if p == "" {
				return ""
			}
			return path.Join(mediaURL, p)
		},
		"date": func(o models.Order) string { return o.CreatedAt.Format("Jan 2, 2006 15:04") },
		"add":  func(a, b int) int { return a + b },
	}

	base, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := path.Base(f)
		if name == "base.html" {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base.html", data)
}
