// Package view renders the HTML pages of the admin site.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/infrastructure/auth"
)

// Page names accepted by Renderer.
const (
	PageOrdersIndex   = "orders/index"
	PageOrdersDetails = "orders/details"
	PageError         = "home/error"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var StaticFS embed.FS

var pageFiles = map[string]string{
	PageOrdersIndex:   "templates/orders_index.html",
	PageOrdersDetails: "templates/orders_details.html",
	PageError:         "templates/error.html",
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}

// Page is the data handed to every template. Identity and PathBase are
// filled in by the Renderer.
type Page struct {
	Title    string
	Content  any
	Identity *auth.Identity
	PathBase string
}

// ErrorContent is the Content of the error page.
type ErrorContent struct {
	RequestID  string
	StatusCode int
}

type Renderer struct {
	pages    map[string]*template.Template
	pathBase string
}

func NewRenderer(pathBase string) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, pathBase: pathBase}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	page, ok := data.(Page)
	if !ok {
		page = Page{Content: data}
	}
	page.PathBase = r.pathBase
	if page.Identity == nil {
		page.Identity = auth.CurrentIdentity(c)
	}

	return t.ExecuteTemplate(w, "layout", page)
}
