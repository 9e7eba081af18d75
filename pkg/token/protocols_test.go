package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/token"
)

func TestCSRF(t *testing.T) {
	t.Parallel()
	m, clock := newManager(t, token.WithClockSkew(0))
	ctx := context.Background()

	tok, err := m.SignCSRF("transfer", token.Duration{})
	require.NoError(t, err)

	p, err := m.VerifyCSRF(ctx, "transfer", tok)
	require.NoError(t, err)
	assert.Equal(t, "csrf:transfer", p.Audience)
	assert.Equal(t, int64(600), p.ExpiresAt-p.IssuedAt, "default csrf lifetime")

	_, err = m.VerifyCSRF(ctx, "delete-account", tok)
	require.ErrorIs(t, err, token.ErrAudienceMismatch)

	_, err = m.SignCSRF("", token.Duration{})
	require.ErrorIs(t, err, token.ErrInvalidParameter)

	short, err := m.SignCSRF("transfer", token.DurationString("30s"))
	require.NoError(t, err)
	clock.Advance(31 * time.Second)
	_, err = m.VerifyCSRF(ctx, "transfer", short)
	require.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestCSRF_DistinctKeysPerAction(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)

	// A generic token relabelled as a CSRF token must not verify.
	generic, err := m.Sign(token.Seconds(60))
	require.NoError(t, err)
	_, err = m.VerifyCSRF(context.Background(), "transfer", generic)
	require.ErrorIs(t, err, token.ErrAudienceMismatch)

	assert.Equal(t, "csrf:login", token.CSRFAudience("login"))
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t, token.WithResetTTL(token.DurationString("45m")))
	ctx := context.Background()

	tok, err := m.SignPasswordReset("user-42", "hash-a", token.Duration{})
	require.NoError(t, err)

	p, err := m.VerifyPasswordReset(ctx, tok, "user-42", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, "reset:password", p.Audience)
	assert.Equal(t, "user-42", p.Subject)
	assert.Equal(t, int64(45*60), p.ExpiresAt-p.IssuedAt)
	hash, ok := p.DataString("emailHash")
	require.True(t, ok)
	assert.Equal(t, "hash-a", hash)

	_, err = m.VerifyPasswordReset(ctx, tok, "user-42", "hash-b")
	require.ErrorIs(t, err, token.ErrInvalidSignature)

	_, err = m.VerifyPasswordReset(ctx, tok, "user-7", "hash-a")
	require.ErrorIs(t, err, token.ErrSubjectMismatch)

	_, err = m.SignPasswordReset("", "hash-a", token.Duration{})
	require.ErrorIs(t, err, token.ErrInvalidParameter)
}

func TestPasswordReset_SingleUse(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t, token.WithReplayGuard(newMemoryGuard()))
	ctx := context.Background()

	tok, err := m.SignPasswordReset("user-42", "hash-a", token.DurationString("30m"))
	require.NoError(t, err)

	_, err = m.VerifyPasswordReset(ctx, tok, "user-42", "hash-a")
	require.NoError(t, err)
	_, err = m.VerifyPasswordReset(ctx, tok, "user-42", "hash-a")
	require.ErrorIs(t, err, token.ErrReplayDetected)
}
