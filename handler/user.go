package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"inkwell/api"
	"inkwell/domain"
)

type accountPage struct {
	Frame Frame
	// Mode is "login" or "signup"; the two forms are mutually exclusive and
	// never share field values.
	Mode  string
	Error string
	Login domain.Credentials
}

func (h *Handler) GetAccount(c echo.Context) error {
	mode := c.QueryParam("mode")
	if mode != "signup" {
		mode = "login"
	}
	return c.Render(http.StatusOK, "account.html", accountPage{Frame: h.frame(c), Mode: mode})
}

func (h *Handler) Login(c echo.Context) error {
	creds := domain.Credentials{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	payload, env, err := h.API.UserLogin(c.Request().Context(), creds)
	if err != nil {
		c.Logger().Errorf("login: %v", err)
		setFlash(c, flashError, "Enter correct credentials")
		return c.Redirect(http.StatusFound, "/account")
	}

	switch {
	case env.IsSuccess:
		if err := h.openSession(c, payload); err != nil {
			return err
		}
		setFlash(c, flashSuccess, "Login Successful!")
		return c.Redirect(http.StatusFound, "/")
	case env.Status == http.StatusBadRequest:
		setFlash(c, flashError, "Invalid username or password")
		return c.Redirect(http.StatusFound, "/account")
	default:
		msg := env.Message
		if msg == "" {
			msg = "Something went wrong!"
		}
		return c.Render(http.StatusOK, "account.html", accountPage{
			Frame: h.frame(c),
			Mode:  "login",
			Error: msg,
			Login: creds,
		})
	}
}

func (h *Handler) Signup(c echo.Context) error {
	if h.Environment != "dev" && !h.EnableSignup {
		setFlash(c, flashError, "Sign up has been disabled")
		return c.Redirect(http.StatusFound, "/account")
	}

	profile := domain.SignupProfile{
		Name:     c.FormValue("name"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	env, err := h.API.UserSignup(c.Request().Context(), profile)
	if err != nil || !env.IsSuccess {
		if err != nil {
			c.Logger().Errorf("signup: %v", err)
		}
		setFlash(c, flashError, "Something went wrong! Please try again later")
		return c.Redirect(http.StatusFound, "/account")
	}

	// Back to the login form; the new account still has to log in.
	setFlash(c, flashSuccess, "Account Created!")
	return c.Redirect(http.StatusFound, "/account")
}

// TestUser is the zero-credential demo login. It waits the advertised delay
// first, then follows the exact success/failure handling of a standard login.
func (h *Handler) TestUser(c echo.Context) error {
	select {
	case <-time.After(h.testUserDelay()):
	case <-c.Request().Context().Done():
		// The caller went away; drop the login instead of acting on it.
		return c.Request().Context().Err()
	}

	payload, env, err := h.API.TestUser(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("test user login: %v", err)
		setFlash(c, flashError, "Failed to log in as Test User")
		return c.Redirect(http.StatusFound, "/account")
	}

	if !env.IsSuccess {
		msg := env.Message
		if msg == "" {
			msg = "Something went wrong!"
		}
		return c.Render(http.StatusOK, "account.html", accountPage{
			Frame: h.frame(c),
			Mode:  "login",
			Error: msg,
		})
	}

	if err := h.openSession(c, payload); err != nil {
		return err
	}
	setFlash(c, flashSuccess, "You are now a Test User!")
	return c.Redirect(http.StatusFound, "/")
}

// openSession stores the tokens and account for a fresh session id and sets
// the signed cookie. Both token keys are written before the caller redirects.
func (h *Handler) openSession(c echo.Context, payload api.AuthPayload) error {
	id := uuid.NewString()
	if err := h.Sessions.SetTokens(id, domain.BearerPair(payload.AccessToken, payload.RefreshToken)); err != nil {
		return err
	}
	h.Sessions.SetAccount(id, domain.Account{Name: payload.Name, Username: payload.Username})

	cookie, err := authorizationCookie(id, h.JWTSecret)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}

// Logout clears the session: account, both stored token keys, and the
// cookie.
func (h *Handler) Logout(c echo.Context) error {
	if id := sessionID(c, h.JWTSecret); id != "" {
		if err := h.Sessions.Delete(id); err != nil {
			c.Logger().Errorf("logout: %v", err)
		}
	}

	cookie := new(http.Cookie)
	cookie.Name = "Authorization"
	cookie.Value = ""
	cookie.Path = "/"
	cookie.Expires = time.Now().Add(-1 * time.Second)
	c.SetCookie(cookie)

	setFlash(c, flashSuccess, "Logout Successful")
	return c.Redirect(http.StatusFound, "/account")
}
