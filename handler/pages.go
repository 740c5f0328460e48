package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type staticPage struct {
	Frame Frame
}

func (h *Handler) Contact(c echo.Context) error {
	return c.Render(http.StatusOK, "contact.html", staticPage{Frame: h.frame(c)})
}

func (h *Handler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", staticPage{Frame: h.frame(c)})
}
