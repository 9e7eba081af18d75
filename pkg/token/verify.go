package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dmitrymomot/hseal/pkg/base64url"
	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/secrets"
)

type verifyOptions struct {
	audience    string
	hasAudience bool
	subject     string
	hasSubject  bool
}

// VerifyOption configures a single Verify call.
type VerifyOption func(*verifyOptions)

// ExpectAudience requires the payload aud to equal aud.
func ExpectAudience(aud string) VerifyOption {
	return func(o *verifyOptions) {
		o.audience = aud
		o.hasAudience = true
	}
}

// ExpectSubject requires the payload sub to equal sub.
func ExpectSubject(sub string) VerifyOption {
	return func(o *verifyOptions) {
		o.subject = sub
		o.hasSubject = true
	}
}

// Verify checks tok and returns its payload. Failures wrap exactly one of the
// package error kinds. ctx bounds the replay guard call only.
func (m *Manager) Verify(ctx context.Context, tok string, opts ...VerifyOption) (*Payload, error) {
	p, err := m.verify(ctx, tok, opts)
	if err != nil {
		level := slog.LevelDebug
		if errors.Is(err, ErrReplayUnavailable) {
			level = slog.LevelWarn
		}
		m.log.Log(ctx, level, "token verification failed", logger.Error(err))
		return nil, err
	}
	return p, nil
}

func (m *Manager) verify(ctx context.Context, tok string, opts []VerifyOption) (*Payload, error) {
	var o verifyOptions
	for _, opt := range opts {
		opt(&o)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}
	h64, p64, s64 := parts[0], parts[1], parts[2]

	headerJSON, err := decodeSegment("header", h64, MaxHeaderBytes)
	if err != nil {
		return nil, err
	}
	payloadJSON, err := decodeSegment("payload", p64, MaxPayloadBytes)
	if err != nil {
		return nil, err
	}
	// An oversized signature is left undecoded and fails the length check below.
	var sig []byte
	if len(s64) <= base64EncodedLen(secrets.DerivedKeySize) {
		if sig, err = base64url.Decode(s64); err != nil {
			return nil, errors.Join(ErrMalformedToken, err)
		}
	}

	header, err := parseObject(headerJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	claims, err := parseObject(payloadJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}

	kid, err := headerKidOf(header)
	if err != nil {
		return nil, err
	}
	secret, ok := m.keys.Secret(kid)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
	}
	defer secrets.Wipe(secret)

	if len(sig) != secrets.DerivedKeySize {
		return nil, fmt.Errorf("%w: signature must be %d bytes", ErrInvalidSignature, secrets.DerivedKeySize)
	}
	key, err := deriveKey(secret, kid, derivationAudience(claims))
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(key)

	expected := secrets.HMACSHA256(key, []byte(h64+"."+p64))
	if !secrets.Equal(expected, sig) {
		return nil, ErrInvalidSignature
	}

	p, err := payloadFromMap(claims)
	if err != nil {
		return nil, err
	}

	now := m.now().Unix()
	skew := int64(m.clockSkew / time.Second)
	if p.NotBefore != 0 && now+skew < p.NotBefore {
		return nil, ErrTokenNotYetValid
	}
	if now-skew >= p.ExpiresAt {
		return nil, ErrTokenExpired
	}

	if o.hasAudience && p.Audience != o.audience {
		return nil, ErrAudienceMismatch
	}
	if o.hasSubject && p.Subject != o.subject {
		return nil, ErrSubjectMismatch
	}

	if m.replay != nil {
		first, err := m.replay.TryConsume(ctx, p.ID, replayTTL(p.ExpiresAt-now, m.clockSkew))
		if err != nil {
			return nil, errors.Join(ErrReplayUnavailable, err)
		}
		if !first {
			return nil, ErrReplayDetected
		}
	}

	return p, nil
}

// maxReplayTTL is the longest retention expressible as whole seconds in a time.Duration.
const maxReplayTTL = time.Duration(math.MaxInt64/int64(time.Second)) * time.Second

// replayTTL is the remaining lifetime plus the skew window in which the token
// is still accepted, saturated at maxReplayTTL.
func replayTTL(remaining int64, skew time.Duration) time.Duration {
	remaining = max(0, remaining)
	if remaining >= int64((maxReplayTTL-skew)/time.Second) {
		return maxReplayTTL
	}
	return time.Duration(remaining)*time.Second + skew
}

func decodeSegment(name, segment string, limit int) ([]byte, error) {
	if base64EncodedLen(limit) < len(segment) {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrMalformedToken, name, limit)
	}
	b, err := base64url.Decode(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedToken, name, err)
	}
	if len(b) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrMalformedToken, name, limit)
	}
	return b, nil
}
