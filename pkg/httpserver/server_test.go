package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/httpserver"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return l
}

func waitUp(t *testing.T, url string) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	l := listen(t)
	var hooks atomic.Int32
	srv := httpserver.New(
		httpserver.WithListener(l),
		httpserver.WithShutdownTimeout(200*time.Millisecond),
		httpserver.WithStopHook(func() error { hooks.Add(1); return nil }),
		httpserver.WithStopHook(func() error { hooks.Add(1); return nil }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.HandlerFunc(ok)) }()
	waitUp(t, "http://"+l.Addr().String())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not return")
	}

	assert.Equal(t, int32(2), hooks.Load())
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, int32(2), hooks.Load(), "hooks run once")
}

func TestRun_ManualShutdown(t *testing.T) {
	t.Parallel()

	l := listen(t)
	hookErr := errors.New("close guard")
	srv := httpserver.New(
		httpserver.WithListener(l),
		httpserver.WithStopHook(func() error { return hookErr }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), http.HandlerFunc(ok)) }()
	waitUp(t, "http://"+l.Addr().String())

	err := srv.Shutdown(context.Background())
	require.ErrorIs(t, err, hookErr)

	select {
	case err := <-done:
		require.ErrorIs(t, err, hookErr)
		assert.NotErrorIs(t, err, httpserver.ErrStart)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not return")
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	t.Parallel()

	l := listen(t)
	srv := httpserver.New(httpserver.WithListener(l))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.HandlerFunc(ok)) }()
	waitUp(t, "http://"+l.Addr().String())

	require.ErrorIs(t, srv.Run(ctx, nil), httpserver.ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	l := listen(t)
	defer l.Close()

	srv := httpserver.New(httpserver.WithAddr(l.Addr().String()))
	err := srv.Run(context.Background(), http.HandlerFunc(ok))
	require.ErrorIs(t, err, httpserver.ErrStart)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	l := listen(t)
	srv := httpserver.NewFromConfig(httpserver.Config{
		ReadTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}, httpserver.WithListener(l))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.HandlerFunc(ok)) }()
	waitUp(t, "http://"+l.Addr().String())

	cancel()
	require.NoError(t, <-done)
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
		t.Helper()
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		httpserver.HealthHandler(nil, nil)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"status": "ok"}, decode(t, rec))
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthHandler(nil, map[string]httpserver.Check{
			"redis": func(context.Context) error { return nil },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, map[string]any{"redis": "up"}, body["checks"])
	})

	t.Run("not ready", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthHandler(nil, map[string]httpserver.Check{
			"redis":    func(context.Context) error { return nil },
			"postgres": func(context.Context) error { return errors.New("dial tcp: refused") },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "refused")
		body := decode(t, rec)
		assert.Equal(t, "unavailable", body["status"])
		assert.Equal(t, map[string]any{"redis": "up", "postgres": "down"}, body["checks"])
	})
}
