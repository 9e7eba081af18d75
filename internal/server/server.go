package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/hseal/pkg/bearer"
	"github.com/dmitrymomot/hseal/pkg/clientip"
	"github.com/dmitrymomot/hseal/pkg/csrf"
	"github.com/dmitrymomot/hseal/pkg/email"
	"github.com/dmitrymomot/hseal/pkg/httpserver"
	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/ratelimiter"
	"github.com/dmitrymomot/hseal/pkg/requestid"
	"github.com/dmitrymomot/hseal/pkg/token"
)

// TransferAction is the CSRF action guarding POST /transfer.
const TransferAction = "transfer"

// Tokens pairs the managers the service signs with. Both normally share one
// KeyStore. Access tokens are presented on every request, so Access must not
// carry a replay guard; OneTime should, since CSRF and reset tokens are
// consumed on first use.
type Tokens struct {
	Access  *token.Manager
	OneTime *token.Manager
}

// Server is the demo HTTP service: password login issuing bearer tokens,
// CSRF-protected form posts and password reset by mailed link.
type Server struct {
	cfg       Config
	tokens    Tokens
	csrf      *csrf.Protector
	users     Users
	mail      email.Sender
	log       *slog.Logger
	checks    map[string]httpserver.Check
	accessTTL token.Duration
	resetTTL  token.Duration
	now       func() time.Time
	clientIP  *clientip.Resolver
	limits    *ratelimiter.MemoryStore
	limiter   *ratelimiter.Bucket
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReadinessCheck adds a named dependency check to GET /readyz.
func WithReadinessCheck(name string, check httpserver.Check) Option {
	return func(s *Server) {
		if check != nil {
			s.checks[name] = check
		}
	}
}

// WithClock overrides the time source for reported expiry times.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCSRFOptions appends options to the CSRF protector built from Config.
func WithCSRFOptions(opts ...csrf.Option) Option {
	return func(s *Server) {
		s.csrf = csrf.New(s.tokens.OneTime, append(s.cfg.CSRF.Options(), opts...)...)
	}
}

// New builds a Server. TTL strings in cfg are validated here.
func New(cfg Config, tokens Tokens, users Users, mail email.Sender, opts ...Option) (*Server, error) {
	if tokens.Access == nil || tokens.OneTime == nil || users == nil || mail == nil {
		return nil, fmt.Errorf("%w: token managers, user store and mail sender are required", token.ErrInvalidConfiguration)
	}

	s := &Server{
		cfg:       cfg,
		tokens:    tokens,
		users:     users,
		mail:      mail,
		log:       slog.New(slog.DiscardHandler),
		checks:    make(map[string]httpserver.Check),
		accessTTL: durationOr(cfg.AccessTTL, token.DefaultTTL),
		resetTTL:  durationOr(cfg.ResetTTL, token.DefaultResetTTL),
		now:       time.Now,
	}
	var err error
	for _, d := range []token.Duration{s.accessTTL, s.resetTTL, durationOr(cfg.CSRF.TTL, token.DefaultCSRFTTL)} {
		if _, err = d.Resolve(); err != nil {
			return nil, err
		}
	}

	s.clientIP = clientip.New(cfg.TrustProxy)
	if cfg.RateLimit.Capacity > 0 {
		s.limits = ratelimiter.NewMemoryStore()
		s.limiter, err = ratelimiter.NewBucket(s.limits, cfg.RateLimit)
		if err != nil {
			_ = s.limits.Close()
			return nil, err
		}
	}

	s.csrf = csrf.New(tokens.OneTime, cfg.CSRF.Options()...)
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("server"))
	return s, nil
}

// Close releases the rate limiter state.
func (s *Server) Close() error {
	if s.limits != nil {
		return s.limits.Close()
	}
	return nil
}

// Handler returns the routed service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(s.clientIP.Middleware)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthHandler(s.log, nil))
	r.Get("/readyz", httpserver.HealthHandler(s.log, s.checks))

	r.With(s.rateLimit("login")).Post("/auth/token", s.handleLogin)
	r.With(s.rateLimit("reset")).Post("/password-reset", s.handleResetRequest)
	r.With(s.rateLimit("reset-confirm")).Post("/password-reset/confirm", s.handleResetConfirm)
	r.Get("/csrf/{action}", s.handleIssueCSRF)

	r.Group(func(r chi.Router) {
		r.Use(bearer.Middleware(s.tokens.Access,
			bearer.WithAudience(s.cfg.AccessAudience),
			bearer.WithLogger(s.log),
		))
		r.Get("/me", s.handleMe)
		r.With(s.csrf.Middleware(TransferAction)).Post("/transfer", s.handleTransfer)
	})

	return r
}

// rateLimit throttles route per client address.
func (s *Server) rateLimit(route string) func(http.Handler) http.Handler {
	if s.limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	byIP := func(r *http.Request) string { return clientip.FromContext(r.Context()) }
	return ratelimiter.Middleware(s.limiter, ratelimiter.Composite(ratelimiter.Static(route), byIP), s.log)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}

func durationOr(s string, fallback token.Duration) token.Duration {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return token.DurationString(s)
}

// Ready runs every readiness check once; used by the CLI before serving.
func (s *Server) Ready(ctx context.Context) error {
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
