package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/hseal/pkg/base64url"
	"github.com/dmitrymomot/hseal/pkg/secrets"
)

type signOptions struct {
	data      *Map
	audience  string
	subject   string
	notBefore Duration
	header    *Map
}

// SignOption configures a single Sign call.
type SignOption func(*signOptions)

// WithData attaches an opaque object to the payload. The map is copied.
func WithData(data *Map) SignOption {
	return func(o *signOptions) {
		if data == nil {
			o.data = nil
			return
		}
		o.data = data.Clone()
	}
}

// WithAudience binds the token to aud. The audience also selects the derived
// signing key, so tokens for different audiences never share key material.
func WithAudience(aud string) SignOption {
	return func(o *signOptions) {
		o.audience = aud
	}
}

func WithSubject(sub string) SignOption {
	return func(o *signOptions) {
		o.subject = sub
	}
}

// WithNotBefore delays validity by d relative to the signing time.
func WithNotBefore(d Duration) SignOption {
	return func(o *signOptions) {
		o.notBefore = d
	}
}

// WithHeader merges extra fields into the token header after the reserved ones.
// Reserved fields (alg, typ, kid, ver) cannot be overridden.
func WithHeader(extra *Map) SignOption {
	return func(o *signOptions) {
		o.header = extra.Clone()
	}
}

// Sign issues a token under the current key that expires after expiresIn.
// An unset expiresIn falls back to the manager default TTL.
func (m *Manager) Sign(expiresIn Duration, opts ...SignOption) (string, error) {
	var o signOptions
	for _, opt := range opts {
		opt(&o)
	}

	now := m.now().Unix()
	ttl, err := expiresIn.or(m.defaultTTL).Resolve()
	if err != nil {
		return "", err
	}

	p := &Payload{
		IssuedAt:  now,
		ExpiresAt: now + ttl,
		Audience:  o.audience,
		Subject:   o.subject,
		Data:      o.data,
	}
	if !o.notBefore.IsZero() {
		nbf, err := o.notBefore.Resolve()
		if err != nil {
			return "", err
		}
		p.NotBefore = now + nbf
	}

	kid, secret, ok := m.keys.Current()
	if !ok {
		return "", fmt.Errorf("%w: no current key", ErrUnknownKey)
	}
	defer secrets.Wipe(secret)

	header, err := buildHeader(kid, o.header)
	if err != nil {
		return "", err
	}

	if p.ID, err = secrets.RandomID(secrets.DefaultIDSize); err != nil {
		return "", err
	}

	headerJSON, err := header.MarshalJSON()
	if err != nil {
		return "", errors.Join(ErrInvalidParameter, err)
	}
	payloadJSON, err := p.MarshalJSON()
	if err != nil {
		return "", errors.Join(ErrInvalidParameter, err)
	}

	signingInput := base64url.Encode(headerJSON) + "." + base64url.Encode(payloadJSON)

	aud := p.Audience
	if aud == "" {
		aud = genericAudience
	}
	key, err := deriveKey(secret, kid, aud)
	if err != nil {
		return "", err
	}
	defer secrets.Wipe(key)

	sig := secrets.HMACSHA256(key, []byte(signingInput))

	var b strings.Builder
	b.Grow(len(signingInput) + 1 + base64EncodedLen(len(sig)))
	b.WriteString(signingInput)
	b.WriteByte('.')
	b.WriteString(base64url.Encode(sig))
	return b.String(), nil
}

func base64EncodedLen(n int) int {
	return (n*8 + 5) / 6
}
