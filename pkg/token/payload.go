package token

import (
	"fmt"
	"time"
)

const (
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
	claimNotBefore = "nbf"
	claimID        = "jti"
	claimAudience  = "aud"
	claimSubject   = "sub"
	claimData      = "data"

	genericAudience = "generic"
)

// Payload is the data carried inside a token. Times are unix seconds.
// Empty Audience/Subject and zero NotBefore mean the claim is absent.
// A Payload returned by Verify is structurally valid, correctly signed and
// time-valid; treat it as read-only.
type Payload struct {
	IssuedAt  int64
	ExpiresAt int64
	NotBefore int64
	ID        string
	Audience  string
	Subject   string
	Data      *Map
}

func (p *Payload) IssuedAtTime() time.Time  { return time.Unix(p.IssuedAt, 0) }
func (p *Payload) ExpiresAtTime() time.Time { return time.Unix(p.ExpiresAt, 0) }

// NotBeforeTime returns the nbf instant and whether the claim is present.
func (p *Payload) NotBeforeTime() (time.Time, bool) {
	if p.NotBefore == 0 {
		return time.Time{}, false
	}
	return time.Unix(p.NotBefore, 0), true
}

// DataString returns a string field from Data.
func (p *Payload) DataString(key string) (string, bool) {
	return p.Data.GetString(key)
}

// MarshalJSON renders the payload in its wire form.
func (p *Payload) MarshalJSON() ([]byte, error) {
	return p.toMap().MarshalJSON()
}

func (p *Payload) toMap() *Map {
	m := NewMap().
		Set(claimIssuedAt, Int(p.IssuedAt)).
		Set(claimExpiresAt, Int(p.ExpiresAt)).
		SetString(claimID, p.ID)
	if p.NotBefore != 0 {
		m.Set(claimNotBefore, Int(p.NotBefore))
	}
	if p.Audience != "" {
		m.SetString(claimAudience, p.Audience)
	}
	if p.Subject != "" {
		m.SetString(claimSubject, p.Subject)
	}
	if p.Data != nil {
		m.Set(claimData, Object(p.Data))
	}
	return m
}

// derivationAudience mirrors the audience used as key-derivation context at
// sign time. It reads the untrusted payload, so anything but a non-empty
// string falls back to the generic audience.
func derivationAudience(m *Map) string {
	if aud, ok := m.GetString(claimAudience); ok && aud != "" {
		return aud
	}
	return genericAudience
}

func payloadFromMap(m *Map) (*Payload, error) {
	p := &Payload{}

	var ok bool
	if p.IssuedAt, ok = intClaim(m, claimIssuedAt); !ok {
		return nil, fmt.Errorf("%w: iat must be an integer", ErrMalformedToken)
	}
	if p.ExpiresAt, ok = intClaim(m, claimExpiresAt); !ok {
		return nil, fmt.Errorf("%w: exp must be an integer", ErrMalformedToken)
	}
	if p.ID, ok = m.GetString(claimID); !ok || p.ID == "" {
		return nil, fmt.Errorf("%w: jti must be a non-empty string", ErrMalformedToken)
	}

	if v, present := m.Get(claimNotBefore); present && !v.IsNull() {
		if p.NotBefore, ok = v.AsInt(); !ok {
			return nil, fmt.Errorf("%w: nbf must be an integer", ErrMalformedToken)
		}
	}
	if p.Audience, ok = optionalString(m, claimAudience); !ok {
		return nil, fmt.Errorf("%w: aud must be a string", ErrMalformedToken)
	}
	if p.Subject, ok = optionalString(m, claimSubject); !ok {
		return nil, fmt.Errorf("%w: sub must be a string", ErrMalformedToken)
	}
	if v, present := m.Get(claimData); present && !v.IsNull() {
		if p.Data, ok = v.AsMap(); !ok {
			return nil, fmt.Errorf("%w: data must be an object", ErrMalformedToken)
		}
	}
	return p, nil
}

func intClaim(m *Map, key string) (int64, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func optionalString(m *Map, key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok || v.IsNull() {
		return "", true
	}
	return v.AsString()
}
