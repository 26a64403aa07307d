package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/config"
)

type defaultsConfig struct {
	Name    string        `env:"CFG_TEST_DEFAULT_NAME" envDefault:"pedidoz"`
	Timeout time.Duration `env:"CFG_TEST_DEFAULT_TIMEOUT" envDefault:"10s"`
}

type overrideConfig struct {
	Name  string `env:"CFG_TEST_OVERRIDE_NAME" envDefault:"pedidoz"`
	Limit int    `env:"CFG_TEST_OVERRIDE_LIMIT" envDefault:"1"`
}

type requiredConfig struct {
	Token string `env:"CFG_TEST_REQUIRED_TOKEN,required"`
}

type validatedConfig struct {
	Timeout time.Duration `env:"CFG_TEST_VALIDATED_TIMEOUT" envDefault:"10s" validate:"gt=0,lte=10s"`
}

type cachedConfig struct {
	Value string `env:"CFG_TEST_CACHED_VALUE" envDefault:"first"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "pedidoz", cfg.Name)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CFG_TEST_OVERRIDE_NAME", "backoffice")
	t.Setenv("CFG_TEST_OVERRIDE_LIMIT", "5")

	var cfg overrideConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "backoffice", cfg.Name)
	assert.Equal(t, 5, cfg.Limit)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("CFG_TEST_VALIDATED_TIMEOUT", "30s")

	var cfg validatedConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad_CachesPerType(t *testing.T) {
	t.Setenv("CFG_TEST_CACHED_VALUE", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFG_TEST_CACHED_VALUE", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.Reset()

	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	type mustConfig struct {
		Token string `env:"CFG_TEST_MUST_TOKEN,required"`
	}
	var cfg mustConfig
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}
