package requestid_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/requestid"
)

func serve(t *testing.T, header string) (ctxID, respID string) {
	t.Helper()

	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return ctxID, rec.Header().Get(requestid.Header)
}

func TestMiddleware_Generates(t *testing.T) {
	t.Parallel()

	ctxID, respID := serve(t, "")
	assert.Equal(t, ctxID, respID)

	parsed, err := uuid.Parse(respID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestMiddleware_KeepsValid(t *testing.T) {
	t.Parallel()

	for _, id := range []string{
		"abc123",
		"test_request-id",
		"550e8400-e29b-41d4-a716-446655440000",
		strings.Repeat("a", 128),
	} {
		t.Run(id, func(t *testing.T) {
			t.Parallel()

			ctxID, respID := serve(t, id)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, respID)
		})
	}
}

func TestMiddleware_ReplacesInvalid(t *testing.T) {
	t.Parallel()

	for _, id := range []string{
		"test@request#id",
		"test request id",
		"test/request/id",
		"<script>alert(1)</script>",
		strings.Repeat("a", 129),
	} {
		t.Run(id, func(t *testing.T) {
			t.Parallel()

			ctxID, respID := serve(t, id)
			assert.NotEmpty(t, ctxID)
			assert.NotEqual(t, id, ctxID)
			assert.Equal(t, ctxID, respID)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "req-1")
	assert.Equal(t, "req-1", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	log.InfoContext(requestid.WithContext(context.Background(), "req-42"), "handled")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	log.InfoContext(context.Background(), "handled")
	assert.NotContains(t, buf.String(), "request_id")
}
