package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Port     int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Host     string        `env:"TEST_CFG_HOST" envDefault:"localhost"`
	Debug    bool          `env:"TEST_CFG_DEBUG" envDefault:"false"`
	Interval time.Duration `env:"TEST_CFG_INTERVAL" envDefault:"5s"`
	APIKey   string        `env:"TEST_CFG_API_KEY"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_DEBUG", "true")
	t.Setenv("TEST_CFG_INTERVAL", "250ms")

	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestLoad_RequiredField(t *testing.T) {
	type cfg struct {
		Secret string `env:"TEST_CFG_SECRET,required"`
	}

	var missing cfg
	err := Load(&missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	t.Setenv("TEST_CFG_SECRET", "hunter2")
	var present cfg
	require.NoError(t, Load(&present))
	assert.Equal(t, "hunter2", present.Secret)
}

func TestLoad_UnparseableValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg sampleConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
