package server

import (
	"time"

	"github.com/dmitrymomot/hseal/pkg/csrf"
	"github.com/dmitrymomot/hseal/pkg/ratelimiter"
)

// Config holds the demo service settings.
type Config struct {
	AccessAudience string      `env:"HSEAL_ACCESS_AUDIENCE" envDefault:"api"`
	AccessTTL      string      `env:"HSEAL_ACCESS_TTL" envDefault:"15m"`
	ResetTTL       string      `env:"HSEAL_RESET_TTL" envDefault:"30m"`
	ResetURL       string      `env:"HSEAL_RESET_URL" envDefault:"http://localhost:8080/reset"` // Link mailed to users; the token is appended as ?token=
	MinPassword    int         `env:"HSEAL_MIN_PASSWORD_LENGTH" envDefault:"8"`
	TrustProxy     bool        `env:"HSEAL_TRUST_PROXY"` // Read client addresses from X-Forwarded-For / X-Real-IP
	CSRF           csrf.Config // HSEAL_CSRF_*

	// Per client address and route, applied to login and password reset.
	// Capacity 0 disables limiting.
	RateLimit ratelimiter.Config `envPrefix:"HSEAL_RATE_LIMIT_"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		AccessAudience: "api",
		AccessTTL:      "15m",
		ResetTTL:       "30m",
		ResetURL:       "http://localhost:8080/reset",
		MinPassword:    8,
		CSRF: csrf.Config{
			TTL:      "10m",
			Path:     "/",
			Secure:   true,
			SameSite: "lax",
		},
		RateLimit: ratelimiter.Config{
			Capacity:       10,
			RefillRate:     1,
			RefillInterval: 6 * time.Second,
		},
	}
}
