// Package config loads the application configuration: defaults, then an
// optional YAML file, then INKWELL_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDev = "dev"
	EnvPro = "pro"
)

type Config struct {
	// Environment is "dev" or "pro". Production serves over autocert TLS.
	Environment string `koanf:"environment"`
	// ListenAddr overrides the listen address. Empty in production means
	// AutoTLS on :443; dev falls back to :8080.
	ListenAddr string `koanf:"listen_addr"`
	// WhitelistHost restricts autocert to a single hostname.
	WhitelistHost string `koanf:"whitelist_host"`
	// JWTSecret signs the session cookie. Dev gets an insecure fallback.
	JWTSecret    string `koanf:"jwt_secret"`
	EnableSignup bool   `koanf:"enable_signup"`
	// SessionDB is the sqlite file holding the stored session tokens.
	SessionDB string `koanf:"session_db"`
	// APIBaseURL is the blog REST backend this frontend talks to.
	APIBaseURL string `koanf:"api_base_url"`
	// APITimeoutSeconds bounds every backend call. There are no retries.
	APITimeoutSeconds int `koanf:"api_timeout_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		Environment:       EnvPro,
		SessionDB:         "./inkwell.db",
		APIBaseURL:        "http://localhost:8000",
		APITimeoutSeconds: 15,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (INKWELL_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("INKWELL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "INKWELL_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.JWTSecret == "" && cfg.Environment == EnvDev {
		cfg.JWTSecret = "unsecure"
	}

	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Environment != EnvDev && c.Environment != EnvPro {
		return fmt.Errorf("invalid environment %q: must be dev or pro", c.Environment)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("no jwt secret defined")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout_seconds must be positive")
	}
	if c.SessionDB == "" {
		return fmt.Errorf("session_db is required")
	}
	return nil
}
