package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadLoginThrottleConfigDefaults(t *testing.T) {
	cfg := LoadLoginThrottleConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Window)
	assert.Equal(t, "login_fail", cfg.Prefix)
}

func TestLoadLoginThrottleConfigOverrides(t *testing.T) {
	t.Setenv("LOGIN_THROTTLE_ENABLED", "false")
	t.Setenv("LOGIN_THROTTLE_MAX_ATTEMPTS", "3")
	t.Setenv("LOGIN_THROTTLE_WINDOW", "5m")

	cfg := LoadLoginThrottleConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Window)
}

func TestLoadLoginThrottleConfigClampsInvalid(t *testing.T) {
	t.Setenv("LOGIN_THROTTLE_MAX_ATTEMPTS", "0")
	t.Setenv("LOGIN_THROTTLE_WINDOW", "-1s")

	cfg := LoadLoginThrottleConfig()
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Window)
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, "ip_user_route", cfg.KeyStrategy)
	assert.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}

func TestLoadRateLimitConfigBurstShorthand(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "abc")
	t.Setenv("X_BOOL", "on")
	t.Setenv("X_INT", "not-a-number")
	t.Setenv("X_DUR", "90s")

	assert.Equal(t, "abc", envStr("X_STR", "d"))
	assert.Equal(t, "d", envStr("X_MISSING", "d"))
	assert.True(t, envBool("X_BOOL", false))
	assert.Equal(t, 7, envInt("X_INT", 7)) // unparseable falls back
	assert.Equal(t, 90*time.Second, envDur("X_DUR", time.Minute))
}
