package clientip_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/hseal/pkg/clientip"
	"github.com/dmitrymomot/hseal/pkg/logger"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		trustProxy bool
		remote     string
		headers    map[string]string
		want       string
	}{
		{"remote ipv4", false, "203.0.113.7:5123", nil, "203.0.113.7"},
		{"remote ipv6", false, "[2001:db8::1]:443", nil, "2001:db8::1"},
		{"remote mapped ipv4", false, "[::ffff:192.0.2.1]:80", nil, "192.0.2.1"},
		{"remote without port", false, "198.51.100.2", nil, "198.51.100.2"},
		{"remote garbage", false, "not-an-ip", nil, ""},
		{"headers ignored when untrusted", false, "203.0.113.7:1", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7"},
		{"forwarded for", true, "10.0.0.1:1", map[string]string{"X-Forwarded-For": "garbage, 1.2.3.4, 10.0.0.1"}, "1.2.3.4"},
		{"real ip", true, "10.0.0.1:1", map[string]string{"X-Real-IP": " 2001:db8::2 "}, "2001:db8::2"},
		{"invalid headers fall back", true, "10.0.0.1:1", map[string]string{"X-Forwarded-For": "x", "X-Real-IP": "y"}, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.New(tt.trustProxy).IP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.New(false).Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "192.0.2.10", got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithContextExtractors(clientip.LoggerExtractor()),
	)
	log.InfoContext(clientip.WithContext(context.Background(), "192.0.2.10"), "hit")
	assert.Contains(t, buf.String(), `"client_ip":"192.0.2.10"`)
}
