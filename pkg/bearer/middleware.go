package bearer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/token"
)

// DefaultRealm is announced in WWW-Authenticate challenges.
const DefaultRealm = "HSEAL"

var bearerPattern = regexp.MustCompile(`(?i)^\s*Bearer\s+(\S+)\s*$`)

// Verifier is implemented by *token.Manager.
type Verifier interface {
	Verify(ctx context.Context, tok string, opts ...token.VerifyOption) (*token.Payload, error)
}

// SkipFunc reports whether a request bypasses authentication.
type SkipFunc func(r *http.Request) bool

type config struct {
	audience     string
	hasAudience  bool
	subject      string
	hasSubject   bool
	realm        string
	allowMissing bool
	skip         SkipFunc
	log          *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithAudience requires tokens to carry aud.
func WithAudience(aud string) Option {
	return func(c *config) {
		c.audience = aud
		c.hasAudience = true
	}
}

// WithSubject requires tokens to carry sub.
func WithSubject(sub string) Option {
	return func(c *config) {
		c.subject = sub
		c.hasSubject = true
	}
}

func WithRealm(realm string) Option {
	return func(c *config) {
		if realm != "" {
			c.realm = realm
		}
	}
}

// AllowMissing lets requests without an Authorization header through
// unauthenticated. A present but invalid header is still rejected.
func AllowMissing() Option {
	return func(c *config) {
		c.allowMissing = true
	}
}

func WithSkip(skip SkipFunc) Option {
	return func(c *config) {
		c.skip = skip
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// Middleware authenticates requests with "Authorization: Bearer <token>".
// On success the verified payload is available via PayloadFromContext;
// otherwise it answers 401 with a Bearer challenge and a JSON error body.
func Middleware(v Verifier, opts ...Option) func(next http.Handler) http.Handler {
	cfg := &config{
		realm: DefaultRealm,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log.With(logger.Component("bearer"))

	var verifyOpts []token.VerifyOption
	if cfg.hasAudience {
		verifyOpts = append(verifyOpts, token.ExpectAudience(cfg.audience))
	}
	if cfg.hasSubject {
		verifyOpts = append(verifyOpts, token.ExpectSubject(cfg.subject))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.skip != nil && cfg.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tok, err := Extract(r)
			if errors.Is(err, ErrMissingAuthorization) && cfg.allowMissing {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				unauthorized(w, cfg.realm, err.Error())
				return
			}

			p, err := v.Verify(r.Context(), tok, verifyOpts...)
			if err != nil {
				log.DebugContext(r.Context(), "bearer token rejected", logger.Error(err))
				unauthorized(w, cfg.realm, Describe(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPayload(r.Context(), p)))
		})
	}
}

// Extract returns the token of a Bearer Authorization header. The scheme is
// matched case-insensitively and surrounding whitespace is ignored.
func Extract(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthorization
	}
	m := bearerPattern.FindStringSubmatch(header)
	if m == nil {
		return "", ErrInvalidAuthorization
	}
	return m[1], nil
}

// Describe maps a verification failure to a client-facing message without
// echoing internal details.
func Describe(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, token.ErrTokenNotYetValid):
		return "token not yet valid"
	case errors.Is(err, token.ErrAudienceMismatch):
		return "token audience mismatch"
	case errors.Is(err, token.ErrSubjectMismatch):
		return "token subject mismatch"
	case errors.Is(err, token.ErrReplayDetected):
		return "token already used"
	case errors.Is(err, token.ErrUnknownKey):
		return "unknown signing key"
	case errors.Is(err, token.ErrInvalidSignature):
		return "invalid token signature"
	case errors.Is(err, token.ErrMalformedToken):
		return "malformed token"
	}
	return "verification failed"
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func unauthorized(w http.ResponseWriter, realm, reason string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="`+realm+`", error="invalid_token"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:            "unauthorized",
		ErrorDescription: reason,
	})
}
