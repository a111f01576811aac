package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SCAN_INTERVAL", "")
	t.Setenv("DB_DSN", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.ScanInterval)
	assert.Empty(t, cfg.DBDSN)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCAN_INTERVAL", "15m")
	t.Setenv("DB_DSN", "postgres://localhost/lostfound")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.ScanInterval)
	assert.Equal(t, "postgres://localhost/lostfound", cfg.DBDSN)
}

func TestFromEnv_InvalidScanInterval(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("SCAN_INTERVAL", "-5m")
	_, err = FromEnv()
	assert.Error(t, err)
}
