package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("FETCH_INTERVAL", "300")
	t.Setenv("FETCH_TIMEOUT", "15s")

	cfg := Load()
	assert.Equal(t, 300*time.Second, cfg.FetchInterval)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
}

func TestDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 600*time.Second, cfg.FetchInterval)
	assert.Equal(t, 5, cfg.MaxConcurrency)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestArchiveEnabledRequiresAllFields(t *testing.T) {
	t.Setenv("R2_ENDPOINT", "https://acc.r2.cloudflarestorage.com")
	t.Setenv("R2_ACCESS_KEY", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")

	cfg := Load()
	assert.False(t, cfg.ArchiveEnabled(), "bucket is still missing")

	t.Setenv("R2_BUCKET", "newsarchive")
	cfg = Load()
	assert.True(t, cfg.ArchiveEnabled())
}
