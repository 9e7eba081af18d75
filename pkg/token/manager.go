package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/secrets"
)

const (
	// Decoded size ceilings enforced at verify time.
	MaxHeaderBytes  = 4096
	MaxPayloadBytes = 4096

	// DefaultClockSkew absorbs clock drift between issuer and verifier.
	DefaultClockSkew = 60 * time.Second

	hkdfInfoPrefix = "HSEAL-HS256:"
)

// Default lifetimes used when a caller leaves the Duration unset.
var (
	DefaultTTL      = DurationString("1h")
	DefaultCSRFTTL  = DurationString("10m")
	DefaultResetTTL = DurationString("30m")
)

// ReplayGuard enforces single use of a token id. TryConsume must be atomic:
// it returns true only for the first consumption of jti within ttl.
// Implementations live in the replay package.
type ReplayGuard interface {
	TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// Manager signs and verifies tokens. It is safe for concurrent use; key
// rotation happens through the shared *secrets.KeyStore.
type Manager struct {
	keys      *secrets.KeyStore
	clockSkew time.Duration
	replay    ReplayGuard
	now       func() time.Time
	log       *slog.Logger

	defaultTTL Duration
	csrfTTL    Duration
	resetTTL   Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClockSkew sets the nbf/exp tolerance. Negative values clamp to zero.
func WithClockSkew(d time.Duration) Option {
	return func(m *Manager) {
		m.clockSkew = max(0, d)
	}
}

// WithReplayGuard enables single-use enforcement during Verify.
func WithReplayGuard(g ReplayGuard) Option {
	return func(m *Manager) {
		m.replay = g
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithDefaultTTL sets the lifetime used when Sign receives an unset Duration.
func WithDefaultTTL(d Duration) Option {
	return func(m *Manager) {
		if !d.IsZero() {
			m.defaultTTL = d
		}
	}
}

func WithCSRFTTL(d Duration) Option {
	return func(m *Manager) {
		if !d.IsZero() {
			m.csrfTTL = d
		}
	}
}

func WithResetTTL(d Duration) Option {
	return func(m *Manager) {
		if !d.IsZero() {
			m.resetTTL = d
		}
	}
}

// New creates a Manager over keys.
func New(keys *secrets.KeyStore, opts ...Option) (*Manager, error) {
	if keys == nil {
		return nil, fmt.Errorf("%w: key store is required", ErrInvalidConfiguration)
	}

	m := &Manager{
		keys:       keys,
		clockSkew:  DefaultClockSkew,
		now:        time.Now,
		log:        slog.New(slog.DiscardHandler),
		defaultTTL: DefaultTTL,
		csrfTTL:    DefaultCSRFTTL,
		resetTTL:   DefaultResetTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("token"))
	return m, nil
}

// Keys returns the key store backing the manager.
func (m *Manager) Keys() *secrets.KeyStore {
	return m.keys
}

// ClockSkew returns the configured nbf/exp tolerance.
func (m *Manager) ClockSkew() time.Duration {
	return m.clockSkew
}

// deriveKey returns the purpose-scoped signing key for (secret, kid, audience).
// The caller must Wipe it.
func deriveKey(secret []byte, kid, audience string) ([]byte, error) {
	return secrets.HKDFSHA256(secret, []byte(kid), []byte(hkdfInfoPrefix+audience), secrets.DerivedKeySize)
}
