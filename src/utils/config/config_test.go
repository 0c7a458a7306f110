package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	config, err := Load("")
	require.Nil(t, err)

	assert.False(t, config.IsDevelopment)
	assert.Equal(t, "0.0.0.0:4000", config.Gateway.RESTListenAddress)
	assert.Equal(t, "bounty-events", config.Redis.ChannelName)
	assert.Equal(t, "address", config.Auth.AddressClaim)
	assert.Greater(t, config.Sweeper.BatchSize, 0)
	assert.Greater(t, config.Reconciler.MaxAttempts, 0)
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("ESCROW_SWEEPER_BATCH_SIZE", "7")
	os.Setenv("ESCROW_LEDGER_URL", "http://ledger:9999")
	os.Setenv("ESCROW_IS_DEVELOPMENT", "true")
	defer func() {
		os.Unsetenv("ESCROW_SWEEPER_BATCH_SIZE")
		os.Unsetenv("ESCROW_LEDGER_URL")
		os.Unsetenv("ESCROW_IS_DEVELOPMENT")
	}()

	config, err := Load("")
	require.Nil(t, err)

	assert.Equal(t, 7, config.Sweeper.BatchSize)
	assert.Equal(t, "http://ledger:9999", config.Ledger.Url)
	assert.True(t, config.IsDevelopment)
}
