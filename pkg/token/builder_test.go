package token_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/base64url"
	"github.com/dmitrymomot/hseal/pkg/token"
)

func TestBuilder(t *testing.T) {
	t.Parallel()
	m, clock := newManager(t)

	tok, err := m.Builder().
		Audience("auth:web").
		Subject("user-1").
		Data("role", token.String("admin")).
		Data("scopes", token.List(token.String("read"), token.String("write"))).
		Header("cty", token.String("session")).
		NotBefore(token.DurationString("5m")).
		ExpiresIn(token.DurationString("1h")).
		Sign()
	require.NoError(t, err)

	raw, err := base64url.Decode(strings.Split(tok, ".")[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cty":"session"`)

	_, err = m.Verify(context.Background(), tok)
	require.ErrorIs(t, err, token.ErrTokenNotYetValid)

	clock.Advance(5 * time.Minute)
	p, err := m.Verify(context.Background(), tok, token.ExpectAudience("auth:web"), token.ExpectSubject("user-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(3600), p.ExpiresAt-p.IssuedAt)
	assert.Equal(t, []string{"role", "scopes"}, p.Data.Keys())
}

func TestBuilder_Defaults(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)

	tok, err := m.Builder().Sign()
	require.NoError(t, err)

	p, err := m.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), p.ExpiresAt-p.IssuedAt)
	assert.Nil(t, p.Data)
}

func TestBuilder_ReservedHeader(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)

	_, err := m.Builder().Header("kid", token.String("evil")).Sign()
	require.ErrorIs(t, err, token.ErrInvalidParameter)
}
