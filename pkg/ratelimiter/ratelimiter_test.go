package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/ratelimiter"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newBucket(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Bucket, *ratelimiter.MemoryStore, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clk.Now), ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	b, err := ratelimiter.NewBucket(store, cfg, ratelimiter.WithBucketClock(clk.Now))
	require.NoError(t, err)
	return b, store, clk
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	for _, cfg := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	b, _, clk := newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: 10 * time.Second})
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		res, err := b.Allow(ctx, "ip:1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, i, res.Remaining)
	}

	res, err := b.Allow(ctx, "ip:1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, 10*time.Second, res.RetryAfter)

	other, err := b.Allow(ctx, "ip:2")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "keys are independent")

	clk.Advance(10 * time.Second)
	res, err = b.Allow(ctx, "ip:1")
	require.NoError(t, err)
	assert.True(t, res.Allowed(), "denied calls did not drain the bucket")
	assert.Equal(t, 0, res.Remaining)

	clk.Advance(time.Hour)
	res, err = b.Allow(ctx, "ip:1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining, "refill is capped at capacity")

	require.NoError(t, b.Reset(ctx, "ip:1"))
	res, err = b.Allow(ctx, "ip:1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)

	_, err = b.AllowN(ctx, "ip:1", 0)
	require.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestBucket_Concurrent(t *testing.T) {
	t.Parallel()

	b, _, _ := newBucket(t, ratelimiter.Config{Capacity: 50, RefillRate: 1, RefillInterval: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := b.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestMemoryStore_Sweep(t *testing.T) {
	t.Parallel()

	b, store, clk := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	_, err := b.Allow(context.Background(), "old")
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)
	_, err = b.Allow(context.Background(), "new")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	key := ratelimiter.Composite(ratelimiter.Static("login"), ratelimiter.Static(""), ratelimiter.Static("1.2.3.4"))
	assert.Equal(t, "login:1.2.3.4", key(r))

	long := ratelimiter.Composite(ratelimiter.Static(strings.Repeat("x", 80)))(r)
	assert.NotEmpty(t, long)
	assert.LessOrEqual(t, len(long), 13)
}

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, errors.Join(ratelimiter.ErrStoreUnavailable, errors.New("down"))
}

func (failingStore) Reset(context.Context, string) error { return nil }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b, _, _ := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})
	h := ratelimiter.Middleware(b, func(r *http.Request) string { return r.Header.Get("X-Client") }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	call := func(client string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
		if client != "" {
			r.Header.Set("X-Client", client)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("a").Code)
	rec := call("a")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call("a")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate_limited"}`, rec.Body.String())

	for range 5 {
		assert.Equal(t, http.StatusNoContent, call("").Code, "empty key is not limited")
	}
}

func TestMiddleware_FailOpen(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(failingStore{}, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	h := ratelimiter.Middleware(b, ratelimiter.Static("k"), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
