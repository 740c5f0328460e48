package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// authorizationCookie signs the session id into the Authorization cookie.
// The cookie carries no Expires, so it dies with the browser session; the
// signed claim still carries its own expiration.
func authorizationCookie(sessionID string, secret string) (*http.Cookie, error) {
	if secret == "" {
		return nil, errors.New("missing secret")
	}
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sessionID"] = sessionID
	claims["expiration"] = time.Now().Add(time.Hour * 24 * 7).Unix()
	signedData, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}

	cookie := new(http.Cookie)
	cookie.Name = "Authorization"
	cookie.Value = signedData
	cookie.Path = "/"
	cookie.HttpOnly = true

	return cookie, nil
}

// sessionID extracts the session id from the Authorization cookie, or ""
// when there is no valid session.
func sessionID(c echo.Context, secret string) string {
	if secret == "" {
		return ""
	}

	cookie, err := c.Cookie("Authorization")
	if err != nil {
		return ""
	}
	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		// SigningMethodHMAC implements the HMAC-SHA family of signing methods.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return ""
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		expiration, ok := claims["expiration"].(float64)
		if !ok || time.Now().Compare(time.Unix(int64(expiration), 0)) > 0 {
			return ""
		}

		id, ok := claims["sessionID"].(string)
		if ok {
			return id
		}
	}
	return ""
}

const flashCookie = "flash"

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func setFlash(c echo.Context, kind, message string) {
	c.SetCookie(&http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(kind + "|" + message),
		Path:  "/",
	})
}

// popFlash reads the pending flash, if any, and clears it.
func popFlash(c echo.Context) Flash {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return Flash{}
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return Flash{}
	}
	kind, message, found := strings.Cut(raw, "|")
	if !found {
		return Flash{Kind: flashSuccess, Message: raw}
	}
	return Flash{Kind: kind, Message: message}
}
