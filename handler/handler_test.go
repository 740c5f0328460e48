package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/api"
	"inkwell/session"
	"inkwell/theme"
)

// newEnv wires a full frontend (echo, renderer, routes, stores) against the
// given fake backend.
func newEnv(t *testing.T, backend http.Handler) (*echo.Echo, *Handler) {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	sessions, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	h := &Handler{
		API:           api.New(srv.URL, 5*time.Second),
		Sessions:      sessions,
		Theme:         theme.NewStore(),
		JWTSecret:     "test-secret",
		EnableSignup:  true,
		Environment:   "dev",
		TestUserDelay: 10 * time.Millisecond,
	}

	e := echo.New()
	e.Renderer = NewRenderer("../templates")
	Register(e, h)
	return e, h
}

func postForm(t *testing.T, e *echo.Echo, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

// flashes returns the decoded flash messages set on the response.
func flashes(t *testing.T, w *httptest.ResponseRecorder) []Flash {
	t.Helper()
	var out []Flash
	for _, ck := range w.Result().Cookies() {
		if ck.Name != flashCookie || ck.Value == "" {
			continue
		}
		raw, err := url.QueryUnescape(ck.Value)
		if err != nil {
			t.Fatalf("unescape flash: %v", err)
		}
		kind, message, _ := strings.Cut(raw, "|")
		out = append(out, Flash{Kind: kind, Message: message})
	}
	return out
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "Authorization" && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no Authorization cookie set")
	return nil
}

// storedSession resolves the session id behind the Authorization cookie.
func storedSession(e *echo.Echo, h *Handler, ck *http.Cookie) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	c := e.NewContext(req, httptest.NewRecorder())
	return sessionID(c, h.JWTSecret)
}
