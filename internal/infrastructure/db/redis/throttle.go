package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carepoint/clinic-api/internal/core/ports"
)

// counterStore is the subset of *redis.Client the throttle needs.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle limits login attempts per username with a fixed window.
// Key format: login:attempts:<lowercased username>
//
// Unknown usernames are counted exactly like known ones, so the throttle
// does not reveal which accounts exist.
type LoginThrottle struct {
	store       counterStore
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle returns a throttle allowing maxAttempts per window.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) ports.LoginThrottle {
	return newLoginThrottle(client, maxAttempts, window)
}

func newLoginThrottle(store counterStore, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{store: store, maxAttempts: int64(maxAttempts), window: window}
}

// Allow records an attempt and reports whether it is within the limit.
func (t *LoginThrottle) Allow(ctx context.Context, username string) (bool, error) {
	key := t.key(username)
	n, err := t.store.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	// The first attempt opens the window.
	if n == 1 {
		if err := t.store.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= t.maxAttempts, nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if err := t.store.Del(ctx, t.key(username)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(username string) string {
	return "login:attempts:" + strings.ToLower(strings.TrimSpace(username))
}

// NoThrottle allows every attempt. It backs LOGIN_MAX_ATTEMPTS=0.
type NoThrottle struct{}

func (NoThrottle) Allow(context.Context, string) (bool, error) { return true, nil }
func (NoThrottle) Reset(context.Context, string) error         { return nil }
