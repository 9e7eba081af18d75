package token_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/base64url"
	"github.com/dmitrymomot/hseal/pkg/secrets"
	"github.com/dmitrymomot/hseal/pkg/token"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock { return &fakeClock{now: epoch} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testSecret(b byte) []byte { return bytes.Repeat([]byte{b}, secrets.MinSecretSize) }

func newKeys(t *testing.T) *secrets.KeyStore {
	t.Helper()
	ks, err := secrets.NewKeyStore(map[string][]byte{"k1": testSecret(1)}, "k1")
	require.NoError(t, err)
	return ks
}

func newManager(t *testing.T, opts ...token.Option) (*token.Manager, *fakeClock) {
	t.Helper()
	clock := newClock()
	m, err := token.New(newKeys(t), append([]token.Option{token.WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return m, clock
}

// forge builds a token from raw JSON signed exactly like the manager does,
// so tests can exercise verification of hand-crafted payloads.
func forge(t *testing.T, secret []byte, kid, aud, headerJSON, payloadJSON string) string {
	t.Helper()
	if aud == "" {
		aud = "generic"
	}
	key, err := secrets.HKDFSHA256(secret, []byte(kid), []byte("HSEAL-HS256:"+aud), 32)
	require.NoError(t, err)

	input := base64url.Encode([]byte(headerJSON)) + "." + base64url.Encode([]byte(payloadJSON))
	return input + "." + base64url.Encode(secrets.HMACSHA256(key, []byte(input)))
}

// memoryGuard is a minimal atomic guard used to exercise the replay hook.
type memoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Duration
}

func newMemoryGuard() *memoryGuard { return &memoryGuard{seen: map[string]time.Duration{}} }

func (g *memoryGuard) TryConsume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[jti]; ok {
		return false, nil
	}
	g.seen[jti] = ttl
	return true, nil
}

type failingGuard struct{ err error }

func (g failingGuard) TryConsume(context.Context, string, time.Duration) (bool, error) {
	return false, g.err
}
