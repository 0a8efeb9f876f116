// Package limiter tracks failed login attempts per username so that
// credential guessing gets throttled before bcrypt verification runs.
package limiter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lab-freezer-inventory/internal/config"
)

// LoginThrottle counts authentication failures per username within a fixed
// window.  A Redis backend is used when available so that all instances share
// the counter; without Redis an in-process map takes over, which is enough
// for a single-node deployment.
type LoginThrottle struct {
	cfg config.LoginThrottleConfig
	rdb *redis.Client
	now func() time.Time

	mu    sync.Mutex
	local map[string]*localWindow
}

type localWindow struct {
	count int
	reset time.Time
}

// NewLoginThrottle builds a throttle from config.  rdb may be nil.
func NewLoginThrottle(cfg config.LoginThrottleConfig, rdb *redis.Client) *LoginThrottle {
	return &LoginThrottle{
		cfg:   cfg,
		rdb:   rdb,
		now:   time.Now,
		local: make(map[string]*localWindow),
	}
}

func (t *LoginThrottle) key(username string) string {
	return t.cfg.Prefix + ":" + strings.ToLower(strings.TrimSpace(username))
}

// Allow reports whether the username may attempt a login right now.  It does
// not consume anything; only Fail advances the counter.
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if !t.cfg.Enabled {
		return true
	}
	if t.rdb != nil {
		n, err := t.rdb.Get(ctx, t.key(username)).Int()
		switch {
		case err == nil:
			return n < t.cfg.MaxAttempts
		case err == redis.Nil:
			return true
		}
		// Redis unreachable: fall through to the local map.
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	w := t.local[t.key(username)]
	if w == nil || t.now().After(w.reset) {
		return true
	}
	return w.count < t.cfg.MaxAttempts
}

// Fail records one failed attempt for the username.
func (t *LoginThrottle) Fail(ctx context.Context, username string) {
	if !t.cfg.Enabled {
		return
	}
	k := t.key(username)
	if t.rdb != nil {
		pipe := t.rdb.TxPipeline()
		pipe.Incr(ctx, k)
		// ExpireNX arms the window only when the key has no TTL yet, so the
		// window stays anchored at the first failure instead of sliding
		// forward with every attempt.
		pipe.ExpireNX(ctx, k, t.cfg.Window)
		if _, err := pipe.Exec(ctx); err == nil {
			return
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	w := t.local[k]
	if w == nil || t.now().After(w.reset) {
		w = &localWindow{reset: t.now().Add(t.cfg.Window)}
		t.local[k] = w
	}
	w.count++
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if !t.cfg.Enabled {
		return
	}
	k := t.key(username)
	if t.rdb != nil {
		if err := t.rdb.Del(ctx, k).Err(); err == nil {
			return
		}
	}
	t.mu.Lock()
	delete(t.local, k)
	t.mu.Unlock()
}
