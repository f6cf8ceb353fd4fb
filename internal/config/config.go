package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all settings for the auth client. Everything comes from the
// environment; the defaults target a local backend and frontend.
type Config struct {
	AppName string `env:"AUTHKIT_APP_NAME" envDefault:"DevHire Auth"`

	// APIBaseURL is where the auth backend lives. All /api/auth/* calls go here.
	APIBaseURL string `env:"AUTHKIT_API_BASE_URL" envDefault:"http://localhost:8000"`

	// PublicOrigin is the origin the OAuth providers redirect back to.
	// Redirect URIs are derived from it plus a fixed per-provider path.
	PublicOrigin string `env:"AUTHKIT_PUBLIC_ORIGIN" envDefault:"http://localhost:3000"`

	GitHubClientID string `env:"AUTHKIT_GITHUB_CLIENT_ID"`
	GoogleClientID string `env:"AUTHKIT_GOOGLE_CLIENT_ID"`

	RefreshInterval time.Duration `env:"AUTHKIT_REFRESH_INTERVAL" envDefault:"10m"`
	HTTPTimeout     time.Duration `env:"AUTHKIT_HTTP_TIMEOUT" envDefault:"30s"`

	// CallbackPort is the loopback listener port used by the CLI to receive
	// the provider redirect.
	CallbackPort int `env:"AUTHKIT_CALLBACK_PORT" envDefault:"53682"`
}

// New loads configuration from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("[config.New] parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for name, raw := range map[string]string{
		"AUTHKIT_API_BASE_URL":  c.APIBaseURL,
		"AUTHKIT_PUBLIC_ORIGIN": c.PublicOrigin,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("[config.validate] %s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("[config.validate] AUTHKIT_REFRESH_INTERVAL must be positive")
	}
	return nil
}
