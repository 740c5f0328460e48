package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/api"
	"inkwell/domain"
	"inkwell/session"
	"inkwell/theme"
)

// DefaultTestUserDelay is the pause before the demo login fires.
const DefaultTestUserDelay = 1500 * time.Millisecond

// Handler carries the dependencies every view needs. The stores are injected
// here, at the composition root; nothing in this package holds global state.
type Handler struct {
	API          *api.Client
	Sessions     *session.Store
	Theme        *theme.Store
	JWTSecret    string
	EnableSignup bool
	Environment  string
	// TestUserDelay overrides DefaultTestUserDelay when non-zero.
	TestUserDelay time.Duration
}

func (h *Handler) testUserDelay() time.Duration {
	if h.TestUserDelay > 0 {
		return h.TestUserDelay
	}
	return DefaultTestUserDelay
}

// Frame is the common slice of page data: the current palette, who is logged
// in, and at most one pending flash message.
type Frame struct {
	Palette  theme.Palette
	LoggedIn bool
	Account  domain.Account
	Flash    Flash
}

func (h *Handler) frame(c echo.Context) Frame {
	account := h.Sessions.Account(sessionID(c, h.JWTSecret))
	return Frame{
		Palette:  h.Theme.Palette(),
		LoggedIn: !account.Empty(),
		Account:  account,
		Flash:    popFlash(c),
	}
}

func (h *Handler) account(c echo.Context) domain.Account {
	return h.Sessions.Account(sessionID(c, h.JWTSecret))
}
