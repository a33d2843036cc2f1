package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("WS_PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("STARTING_BALANCE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9090", cfg.WSPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 100000.0, cfg.StartingBalance)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("WS_PORT", "3001")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STARTING_BALANCE", "50000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "3001", cfg.WSPort)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 50000.0, cfg.StartingBalance)
}
