package replay

import (
	"log/slog"
	"time"
)

const (
	// DefaultPrefix namespaces consumed ids in shared stores.
	DefaultPrefix = "hseal:jti:"

	// DefaultMinTTL is the shortest time a consumed id is retained.
	DefaultMinTTL = 30 * time.Second

	// DefaultSweepInterval is how often the memory guard drops expired ids.
	DefaultSweepInterval = time.Minute
)

type options struct {
	prefix        string
	minTTL        time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	log           *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		prefix:        DefaultPrefix,
		minTTL:        DefaultMinTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		log:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) ttl(ttl time.Duration) time.Duration {
	return max(ttl, o.minTTL)
}

// Option configures a guard.
type Option func(*options)

// WithPrefix sets the key prefix used by the Redis guard.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithMinTTL sets the minimum retention for consumed ids. Negative values clamp to zero.
func WithMinTTL(d time.Duration) Option {
	return func(o *options) {
		o.minTTL = max(0, d)
	}
}

// WithSweepInterval sets how often the memory guard removes expired ids.
// Zero disables the background sweep.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) {
		o.sweepInterval = d
	}
}

// WithClock overrides the time source of the memory and Mongo guards.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
