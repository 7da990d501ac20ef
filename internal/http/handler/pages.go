package handler

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"marketplace-web/internal/auth"
	apperrors "marketplace-web/pkg/errors"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders the page shell. Page bodies are mounted client-side into
// the shell's #app element.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// PageData is what the page shell sees.
type PageData struct {
	SiteName string
	Title    string
	Path     string
	Section  string
	SignedIn bool
	UserID   string
	Role     string
}

type PageHandler struct {
	siteName string
}

func NewPageHandler(siteName string) *PageHandler {
	return &PageHandler{siteName: siteName}
}

// Page renders the shell for the route the guard admitted.
func (h *PageHandler) Page(c echo.Context) error {
	rule, ok := auth.GetRule(c)
	if !ok {
		return apperrors.InternalServer(msgPageWithoutGuard, nil)
	}

	data := PageData{
		SiteName: h.siteName,
		Title:    rule.Title,
		Path:     rule.Path,
		Section:  section(rule.Path),
	}
	if sess, ok := auth.GetSession(c); ok {
		data.SignedIn = true
		data.UserID = sess.UserID
		data.Role = sess.Role
	}

	return c.Render(http.StatusOK, templatePage, data)
}

// section is the first path segment, or "storefront" for the root.
func section(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "storefront"
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
