package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/acme/autocert"

	"inkwell/api"
	"inkwell/config"
	"inkwell/handler"
	"inkwell/session"
	"inkwell/theme"
)

func main() {
	configPath := os.Getenv("INKWELL_CONFIG")
	if configPath == "" {
		configPath = "inkwell.yml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	fmt.Println("Running session database migrations...")
	sessions, err := session.Open(cfg.SessionDB)
	if err != nil {
		panic(fmt.Sprintf("error opening session store: %v", err))
	}
	defer sessions.Close()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "cookie:Authorization",
		Skipper: func(c echo.Context) bool {
			if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodOptions {
				return true
			}
			if strings.HasPrefix(c.Path(), "/account") || c.Path() == "/theme" {
				return true
			}

			return false
		},
	}))

	h := &handler.Handler{
		API:          api.New(cfg.APIBaseURL, time.Duration(cfg.APITimeoutSeconds)*time.Second),
		Sessions:     sessions,
		Theme:        theme.NewStore(),
		JWTSecret:    cfg.JWTSecret,
		EnableSignup: cfg.EnableSignup,
		Environment:  cfg.Environment,
	}

	e.Renderer = handler.NewRenderer("templates")
	handler.Register(e, h)
	e.Static("/static", "assets")

	// Fancy error pages
	e.HTTPErrorHandler = customHTTPErrorHandler

	addr := cfg.ListenAddr
	if cfg.Environment == config.EnvDev && addr == "" {
		addr = ":8080"
	}

	if addr != "" {
		e.Logger.Fatal(e.Start(addr))
	} else {
		// Cache certificates to avoid issues with rate limits (https://letsencrypt.org/docs/rate-limits)
		e.AutoTLSManager.Cache = autocert.DirCache("/var/www/.cache")
		if cfg.WhitelistHost != "" {
			e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(cfg.WhitelistHost)
		}
		e.Pre(middleware.HTTPSRedirect())
		e.Logger.Fatal(e.StartAutoTLS(":443"))
	}
}

func customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if code != http.StatusNotFound {
		c.Logger().Error(err)
	}
	errorPage := fmt.Sprintf("assets/%d.html", code)
	if err := c.File(errorPage); err != nil {
		c.Logger().Error(err)
	}
}
