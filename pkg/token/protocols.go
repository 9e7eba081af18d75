package token

import (
	"context"
	"fmt"
)

const (
	csrfAudiencePrefix = "csrf:"
	resetAudience      = "reset:password"
	emailHashField     = "emailHash"
)

// CSRFAudience returns the audience namespace used for CSRF tokens of action.
func CSRFAudience(action string) string {
	return csrfAudiencePrefix + action
}

// SignCSRF issues a token bound to a single form action.
// An unset ttl falls back to the manager CSRF TTL.
func (m *Manager) SignCSRF(action string, ttl Duration) (string, error) {
	if action == "" {
		return "", fmt.Errorf("%w: csrf action is required", ErrInvalidParameter)
	}
	return m.Sign(ttl.or(m.csrfTTL), WithAudience(CSRFAudience(action)))
}

// VerifyCSRF checks a token issued by SignCSRF for the same action.
func (m *Manager) VerifyCSRF(ctx context.Context, action, tok string) (*Payload, error) {
	return m.Verify(ctx, tok, ExpectAudience(CSRFAudience(action)))
}

// SignPasswordReset issues a reset token for userID bound to the hash of the
// email address the reset was requested for. Changing the email invalidates
// outstanding tokens.
func (m *Manager) SignPasswordReset(userID, emailHash string, ttl Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrInvalidParameter)
	}
	return m.Sign(ttl.or(m.resetTTL),
		WithAudience(resetAudience),
		WithSubject(userID),
		WithData(NewMap().SetString(emailHashField, emailHash)),
	)
}

// VerifyPasswordReset checks a reset token against the user and current email hash.
// An email hash mismatch is reported as ErrInvalidSignature.
func (m *Manager) VerifyPasswordReset(ctx context.Context, tok, userID, emailHash string) (*Payload, error) {
	p, err := m.Verify(ctx, tok, ExpectAudience(resetAudience), ExpectSubject(userID))
	if err != nil {
		return nil, err
	}
	if got, ok := p.DataString(emailHashField); !ok || got != emailHash {
		return nil, fmt.Errorf("%w: email hash does not match", ErrInvalidSignature)
	}
	return p, nil
}
