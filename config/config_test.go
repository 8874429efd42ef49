package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishsafe/bridge"
	"phishsafe/probe"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, bridge.DefaultChannelName, cfg.Channel)
	assert.Equal(t, "keyword", cfg.Policy)
	assert.Equal(t, probe.SecureFlagInert, cfg.SecureFlag)
	assert.False(t, cfg.WindowSecure)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Zero(t, cfg.WatchInterval)
	assert.False(t, cfg.Tray)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PHISHSAFE_POLICY", "stub")
	t.Setenv("PHISHSAFE_SECURE_FLAG", "enforce")
	t.Setenv("PHISHSAFE_WINDOW_SECURE", "true")
	t.Setenv("PHISHSAFE_DB_DRIVER", "sqlite3")
	t.Setenv("PHISHSAFE_WATCH_INTERVAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "stub", cfg.Policy)
	assert.Equal(t, probe.SecureFlagEnforce, cfg.SecureFlag)
	assert.True(t, cfg.WindowSecure)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"PHISHSAFE_POLICY":         "ml",
		"PHISHSAFE_SECURE_FLAG":    "maybe",
		"PHISHSAFE_DB_DRIVER":      "postgres",
		"PHISHSAFE_WATCH_INTERVAL": "-1s",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsUnparsable(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PHISHSAFE_WATCH_INTERVAL", "5"},
		{"PHISHSAFE_TRAY", "maybe"},
		{"PHISHSAFE_WINDOW_SECURE", "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
