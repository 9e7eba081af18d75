package token

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/hseal/pkg/secrets"
)

// Config holds Manager settings loaded from the environment.
type Config struct {
	ClockSkew  time.Duration `env:"HSEAL_CLOCK_SKEW" envDefault:"60s"` // Tolerance for nbf/exp checks
	DefaultTTL string        `env:"HSEAL_DEFAULT_TTL" envDefault:"1h"` // Lifetime when Sign gets no explicit TTL
	CSRFTTL    string        `env:"HSEAL_CSRF_TTL" envDefault:"10m"`   // CSRF token lifetime
	ResetTTL   string        `env:"HSEAL_RESET_TTL" envDefault:"30m"`  // Password reset token lifetime
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ClockSkew:  DefaultClockSkew,
		DefaultTTL: "1h",
		CSRFTTL:    "10m",
		ResetTTL:   "30m",
	}
}

// NewFromConfig creates a Manager from cfg. TTL strings are validated eagerly.
// Additional options are applied after the config values.
func NewFromConfig(keys *secrets.KeyStore, cfg Config, log *slog.Logger, opts ...Option) (*Manager, error) {
	configOpts := []Option{WithClockSkew(cfg.ClockSkew), WithLogger(log)}

	for _, ttl := range []struct {
		value string
		apply func(Duration) Option
	}{
		{cfg.DefaultTTL, WithDefaultTTL},
		{cfg.CSRFTTL, WithCSRFTTL},
		{cfg.ResetTTL, WithResetTTL},
	} {
		if ttl.value == "" {
			continue
		}
		d := DurationString(ttl.value)
		if _, err := d.Resolve(); err != nil {
			return nil, err
		}
		configOpts = append(configOpts, ttl.apply(d))
	}

	return New(keys, append(configOpts, opts...)...)
}
