package csrf

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/hseal/pkg/token"
)

const (
	DefaultHeaderName = "X-CSRF-Token"
	DefaultFieldName  = "csrf_token"
)

// Config holds cookie attributes loaded from the environment.
type Config struct {
	TTL      string `env:"HSEAL_CSRF_TTL" envDefault:"10m"`             // Token and cookie lifetime
	Path     string `env:"HSEAL_CSRF_COOKIE_PATH" envDefault:"/"`       // Cookie path
	Domain   string `env:"HSEAL_CSRF_COOKIE_DOMAIN"`                    // Cookie domain, empty for host-only
	Secure   bool   `env:"HSEAL_CSRF_COOKIE_SECURE" envDefault:"true"`  // Send over HTTPS only
	SameSite string `env:"HSEAL_CSRF_COOKIE_SAMESITE" envDefault:"lax"` // lax, strict or none
}

// Options returns the Protector options described by c.
func (c Config) Options() []Option {
	opts := []Option{
		WithPath(c.Path),
		WithDomain(c.Domain),
		WithSecure(c.Secure),
		WithSameSite(parseSameSite(c.SameSite)),
	}
	if c.TTL != "" {
		opts = append(opts, WithTTL(token.DurationString(c.TTL)))
	}
	return opts
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

type options struct {
	ttl        token.Duration
	path       string
	domain     string
	secure     bool
	httpOnly   bool
	sameSite   http.SameSite
	headerName string
	fieldName  string
	now        func() time.Time
}

// Option configures a Protector.
type Option func(*options)

// WithTTL sets the lifetime of issued tokens and their cookies.
func WithTTL(ttl token.Duration) Option {
	return func(o *options) {
		if !ttl.IsZero() {
			o.ttl = ttl
		}
	}
}

func WithPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.path = path
		}
	}
}

func WithDomain(domain string) Option {
	return func(o *options) {
		o.domain = domain
	}
}

func WithSecure(secure bool) Option {
	return func(o *options) {
		o.secure = secure
	}
}

// WithHTTPOnly hides the cookie from scripts. Leave it off when pages echo the
// cookie value back through the X-CSRF-Token header.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *options) {
		o.httpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *options) {
		o.sameSite = sameSite
	}
}

// WithHeaderName sets the request header carrying the submitted token.
func WithHeaderName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.headerName = name
		}
	}
}

// WithFieldName sets the form field carrying the submitted token.
func WithFieldName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.fieldName = name
		}
	}
}

// WithClock overrides the time source used for cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
