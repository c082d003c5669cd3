package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.False(t, cfg.IsProd())
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "*384*26621#", cfg.ServiceCode)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.BridgeTimeout)
	assert.Equal(t, int64(100), cfg.MinInvestment)
	assert.Equal(t, int64(1_000_000), cfg.MaxInvestment)
	assert.Equal(t, int64(350_000), cfg.TotalRaise)
	assert.Equal(t, 10, cfg.RateLimitMax)
	assert.Len(t, cfg.AllowedCIDRs, 4)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("ALLOWED_CIDRS", "192.0.2.0/24,198.51.100.0/24")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"192.0.2.0/24", "198.51.100.0/24"}, cfg.AllowedCIDRs)
}

func TestLoadRejectsBadBounds(t *testing.T) {
	t.Setenv("MIN_INVESTMENT", "1000")
	t.Setenv("MAX_INVESTMENT", "100")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsZeroRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "0")

	_, err := Load()
	assert.Error(t, err)
}
