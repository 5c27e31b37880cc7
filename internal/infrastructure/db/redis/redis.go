// Package redis backs login throttling with Redis counters.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

const dialTimeout = 5 * time.Second

// Config holds the connection settings for the throttle store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// OpTimeout bounds every read and write. Throttle checks sit on the login
	// path, so this stays short.
	OpTimeout time.Duration
}

// Connect dials Redis and pings it once. An unreachable server is reported as
// domain.ErrUnavailable.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	op := cfg.OpTimeout
	if op <= 0 {
		op = 500 * time.Millisecond
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  op,
		WriteTimeout: op,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w: %w", cfg.Addr, domain.ErrUnavailable, err)
	}
	return client, nil
}

// Pinger reports Redis health to the readiness probe.
type Pinger struct {
	client *redis.Client
}

func NewPinger(client *redis.Client) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
