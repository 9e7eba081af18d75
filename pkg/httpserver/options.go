package httpserver

import (
	"log/slog"
	"net"
	"time"
)

// Option configures a Server.
type Option func(*config)

// WithAddr sets the listen address. Empty keeps the default.
func WithAddr(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.addr = addr
		}
	}
}

// WithListener serves on an already bound listener instead of Addr.
func WithListener(l net.Listener) Option {
	return func(c *config) { c.listener = l }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(c *config) { c.readHeaderTimeout = max(d, 0) }
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = max(d, 0) }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) { c.writeTimeout = max(d, 0) }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) { c.idleTimeout = max(d, 0) }
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

func WithMaxHeaderBytes(n int) Option {
	return func(c *config) { c.maxHeaderBytes = max(n, 0) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStopHook registers a callback run after the server has stopped
// accepting requests, in registration order. Close replay guards and
// database pools here.
func WithStopHook(h func() error) Option {
	return func(c *config) {
		if h != nil {
			c.stopHooks = append(c.stopHooks, h)
		}
	}
}
