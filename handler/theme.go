package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToggleTheme flips dark mode and sends the user back where they were. Every
// page rendered after this sees the new palette.
func (h *Handler) ToggleTheme(c echo.Context) error {
	h.Theme.Toggle()

	back := c.Request().Referer()
	if back == "" {
		back = "/"
	}
	return c.Redirect(http.StatusFound, back)
}
