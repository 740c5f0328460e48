package handler

import (
	"errors"
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// pageTemplates are the views; each one defines "content" and is executed
// inside base.html.
var pageTemplates = []string{
	"index.html",
	"details.html",
	"account.html",
	"create.html",
	"update.html",
	"contact.html",
	"about.html",
}

type TemplateRegistry struct {
	templates map[string]*template.Template
}

func (t *TemplateRegistry) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		err := errors.New("template not found: " + name)
		return err
	}

	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// NewRenderer parses the page templates from dir.
func NewRenderer(dir string) *TemplateRegistry {
	t := map[string]*template.Template{}
	for _, page := range pageTemplates {
		t[page] = template.Must(template.ParseFiles(
			filepath.Join(dir, page),
			filepath.Join(dir, "base.html"),
		))
	}
	return &TemplateRegistry{templates: t}
}

// Register wires every route onto e.
func Register(e *echo.Echo, h *Handler) {
	// Views
	e.GET("/", h.Home)
	e.GET("/details/:id", h.GetDetails)
	e.GET("/account", h.GetAccount)
	e.GET("/about", h.About)
	e.GET("/contact", h.Contact)
	e.GET("/create", h.GetCreateForm)
	e.GET("/update/:id", h.GetUpdateForm)

	// Actions
	e.POST("/account/login", h.Login)
	e.POST("/account/signup", h.Signup)
	e.POST("/account/testuser", h.TestUser)
	e.GET("/logout", h.Logout)
	e.POST("/create", h.CreatePost)
	e.POST("/update/:id", h.UpdatePost)
	e.POST("/theme", h.ToggleTheme)
}
