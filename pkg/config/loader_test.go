package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hseal/pkg/config"
)

type defaultsConfig struct {
	Name    string        `env:"HSEAL_TEST_NAME" envDefault:"hseal"`
	Retries int           `env:"HSEAL_TEST_RETRIES" envDefault:"3"`
	Timeout time.Duration `env:"HSEAL_TEST_TIMEOUT" envDefault:"2s"`
}

type cachedConfig struct {
	Value string `env:"HSEAL_TEST_CACHED" envDefault:"first"`
}

type requiredConfig struct {
	Value string `env:"HSEAL_TEST_REQUIRED,required"`
}

type fileConfig struct {
	FromFile string `env:"HSEAL_TEST_FROM_FILE"`
	Preset   string `env:"HSEAL_TEST_PRESET"`
}

// These tests mutate the process environment and the shared cache, so they
// do not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "hseal", cfg.Name)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoad_CachesPerType(t *testing.T) {
	config.ResetCache()
	t.Setenv("HSEAL_TEST_CACHED", "first")

	var a cachedConfig
	require.NoError(t, config.Load(&a))

	t.Setenv("HSEAL_TEST_CACHED", "second")
	var b cachedConfig
	require.NoError(t, config.Load(&b))
	assert.Equal(t, "first", b.Value)

	config.ResetCache()
	var c cachedConfig
	require.NoError(t, config.Load(&c))
	assert.Equal(t, "second", c.Value)
}

func TestLoad_Errors(t *testing.T) {
	config.ResetCache()

	require.ErrorIs(t, config.Load[requiredConfig](nil), config.ErrNilPointer)

	var cfg requiredConfig
	require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoadEnv(t *testing.T) {
	config.ResetCache()
	t.Setenv("HSEAL_TEST_PRESET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("HSEAL_TEST_FROM_FILE") })

	require.NoError(t, config.LoadEnv("testdata/test.env"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.FromFile)
	assert.Equal(t, "from-env", cfg.Preset, "existing variables win over the file")

	require.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
}
