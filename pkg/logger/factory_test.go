package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/logger"
)

type ctxKey struct{}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("debug filtered at info level", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("text format and static attrs", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithFormat(logger.FormatText),
			logger.WithAttr(logger.Component("token")),
		)
		log.Info("hello")
		assert.Contains(t, buf.String(), "component=token")
	})

	t.Run("context extractor", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, requestIDExtractor),
		).With(logger.Component("server"))

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "handled")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "server", entry["component"])
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithEnvironment("development", "svc"), logger.WithOutput(buf))
	log.Debug("msg")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "service=svc")
	assert.Contains(t, buf.String(), "env=development")

	buf.Reset()
	log = logger.New(logger.WithEnvironment("prod", "svc"), logger.WithOutput(buf))
	log.Info("msg")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "production", entry["env"])
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logger.NewFromConfig(logger.Config{
		Level:       "warn",
		Format:      "json",
		Environment: "development",
		Service:     "hseal",
	}, logger.WithOutput(buf))
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "hseal", entry["service"])

	_, err = logger.NewFromConfig(logger.Config{Level: "loud"})
	require.Error(t, err)

	_, err = logger.NewFromConfig(logger.Config{Format: "xml"})
	require.Error(t, err)
}
