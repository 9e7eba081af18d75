package csrf

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/hseal/pkg/secrets"
	"github.com/dmitrymomot/hseal/pkg/token"
)

// Manager is implemented by *token.Manager.
type Manager interface {
	SignCSRF(action string, ttl token.Duration) (string, error)
	VerifyCSRF(ctx context.Context, action, tok string) (*token.Payload, error)
}

// Protector implements double-submit CSRF protection: the token goes out both
// in a cookie and in the page, and a submission must present both copies.
type Protector struct {
	m    Manager
	opts options
}

// Issued describes a freshly issued CSRF token.
type Issued struct {
	CookieName string
	Token      string
	ExpiresAt  time.Time
}

// New creates a Protector. Cookies default to Path=/, Secure, SameSite=Lax
// and are readable by scripts.
func New(m Manager, opts ...Option) *Protector {
	o := options{
		ttl:        token.DefaultCSRFTTL,
		path:       "/",
		secure:     true,
		sameSite:   http.SameSiteLaxMode,
		headerName: DefaultHeaderName,
		fieldName:  DefaultFieldName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Protector{m: m, opts: o}
}

// Issue signs a token for action and sets the matching cookie on w.
// Embed Issued.Token in the form or send it back in the X-CSRF-Token header.
func (p *Protector) Issue(w http.ResponseWriter, action string) (Issued, error) {
	ttl, err := p.opts.ttl.Std()
	if err != nil {
		return Issued{}, err
	}

	tok, err := p.m.SignCSRF(action, p.opts.ttl)
	if err != nil {
		return Issued{}, err
	}

	issued := Issued{
		CookieName: CookieName(action),
		Token:      tok,
		ExpiresAt:  p.opts.now().Add(ttl).Truncate(time.Second),
	}
	http.SetCookie(w, p.cookie(issued.CookieName, tok, issued.ExpiresAt, int(ttl/time.Second)))
	return issued, nil
}

// Verify checks that r submits the token held in the action cookie and that
// the token is a valid CSRF token for action.
func (p *Protector) Verify(r *http.Request, action string) (*token.Payload, error) {
	c, err := r.Cookie(CookieName(action))
	if err != nil || c.Value == "" {
		return nil, ErrMissingCookie
	}

	submitted := r.Header.Get(p.opts.headerName)
	if submitted == "" {
		submitted = r.PostFormValue(p.opts.fieldName)
	}
	if submitted == "" {
		return nil, ErrMissingToken
	}

	if !secrets.Equal([]byte(submitted), []byte(c.Value)) {
		return nil, ErrTokenMismatch
	}
	return p.m.VerifyCSRF(r.Context(), action, submitted)
}

// Clear expires the action cookie.
func (p *Protector) Clear(w http.ResponseWriter, action string) {
	http.SetCookie(w, p.cookie(CookieName(action), "", time.Unix(0, 0), -1))
}

// Middleware rejects requests with 403 unless Verify succeeds. Safe methods
// (GET, HEAD, OPTIONS, TRACE) pass through untouched.
func (p *Protector) Middleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}
			if _, err := p.Verify(r, action); err != nil {
				http.Error(w, Reason(err), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Reason returns a client-facing description of a Verify failure.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCookie), errors.Is(err, ErrMissingToken):
		return "missing csrf token"
	case errors.Is(err, ErrTokenMismatch):
		return "csrf token mismatch"
	case errors.Is(err, token.ErrTokenExpired):
		return "csrf token expired"
	case errors.Is(err, token.ErrReplayDetected):
		return "csrf token already used"
	}
	return "invalid csrf token"
}

func (p *Protector) cookie(name, value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     p.opts.path,
		Domain:   p.opts.domain,
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   p.opts.secure,
		HttpOnly: p.opts.httpOnly,
		SameSite: p.opts.sameSite,
	}
}
