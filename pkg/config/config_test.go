package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int      `env:"TEST_CFG_PORT" envDefault:"8080"`
	Premium bool     `env:"TEST_CFG_PREMIUM" envDefault:"true"`
	Brokers []string `env:"TEST_CFG_BROKERS" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Premium)
	assert.Empty(t, cfg.Brokers)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_PREMIUM", "false")
	t.Setenv("TEST_CFG_BROKERS", "a:9092,b:9092")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Premium)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
}

func TestLoadWithEnvironment(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadWithEnvironment(&cfg, map[string]string{"TEST_CFG_PORT": "7000"}))

	assert.Equal(t, 7000, cfg.Port)
	assert.True(t, cfg.Premium)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_NonPointer(t *testing.T) {
	err := Load(testConfig{})
	assert.Error(t, err)
}
