package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/lab-freezer-inventory/internal/config"
)

func newTestThrottle(max int, window time.Duration) (*LoginThrottle, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	th := NewLoginThrottle(config.LoginThrottleConfig{
		Enabled:     true,
		MaxAttempts: max,
		Window:      window,
		Prefix:      "login_fail",
	}, nil) // no Redis: exercises the in-process fallback
	th.now = func() time.Time { return now }
	return th, &now
}

func TestThrottleBlocksAfterMaxFailures(t *testing.T) {
	th, _ := newTestThrottle(5, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, th.Allow(ctx, "marie"), "attempt %d should pass", i)
		th.Fail(ctx, "marie")
	}
	assert.False(t, th.Allow(ctx, "marie"))

	// other usernames are unaffected
	assert.True(t, th.Allow(ctx, "pierre"))
}

func TestThrottleWindowExpiry(t *testing.T) {
	th, now := newTestThrottle(3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		th.Fail(ctx, "marie")
	}
	assert.False(t, th.Allow(ctx, "marie"))

	*now = now.Add(16 * time.Minute)
	assert.True(t, th.Allow(ctx, "marie"))

	// a failure after expiry starts a fresh window
	th.Fail(ctx, "marie")
	assert.True(t, th.Allow(ctx, "marie"))
}

func TestThrottleResetOnSuccess(t *testing.T) {
	th, _ := newTestThrottle(3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		th.Fail(ctx, "marie")
	}
	assert.False(t, th.Allow(ctx, "marie"))

	th.Reset(ctx, "marie")
	assert.True(t, th.Allow(ctx, "marie"))
}

func TestThrottleNormalizesUsername(t *testing.T) {
	th, _ := newTestThrottle(2, 15*time.Minute)
	ctx := context.Background()

	th.Fail(ctx, "Marie")
	th.Fail(ctx, " marie ")
	assert.False(t, th.Allow(ctx, "MARIE"))
}

func newRedisThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	th := NewLoginThrottle(config.LoginThrottleConfig{
		Enabled:     true,
		MaxAttempts: max,
		Window:      window,
		Prefix:      "login_fail",
	}, rdb)
	return th, m
}

func TestThrottleRedisBlocksAndResets(t *testing.T) {
	th, _ := newRedisThrottle(t, 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, th.Allow(ctx, "marie"), "attempt %d should pass", i)
		th.Fail(ctx, "marie")
	}
	assert.False(t, th.Allow(ctx, "marie"))

	th.Reset(ctx, "marie")
	assert.True(t, th.Allow(ctx, "marie"))
}

// The window is anchored at the first failure: later failures inside it must
// not push the expiry forward, otherwise a slow drip of attempts locks the
// username out forever.
func TestThrottleRedisWindowAnchoredAtFirstFailure(t *testing.T) {
	th, m := newRedisThrottle(t, 3, 15*time.Minute)
	ctx := context.Background()

	th.Fail(ctx, "marie")
	m.FastForward(10 * time.Minute)
	th.Fail(ctx, "marie")
	th.Fail(ctx, "marie")
	assert.False(t, th.Allow(ctx, "marie"))

	// 16 minutes after the first failure the counter has expired, even
	// though the last failure was only 6 minutes ago
	m.FastForward(6 * time.Minute)
	assert.True(t, th.Allow(ctx, "marie"))
}

func TestThrottleDisabled(t *testing.T) {
	th := NewLoginThrottle(config.LoginThrottleConfig{Enabled: false, MaxAttempts: 1, Window: time.Minute}, nil)
	ctx := context.Background()

	th.Fail(ctx, "marie")
	th.Fail(ctx, "marie")
	assert.True(t, th.Allow(ctx, "marie"))
}
