// Package cache opens the Redis connection shared by sessions and the chart
// cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DialTimeout bounds the startup ping.
const DialTimeout = 5 * time.Second

// New creates a Redis client and verifies it answers.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// Probe adapts a client to readiness checks.
type Probe struct {
	Client *redis.Client
}

// Ping returns nil when Redis answers.
func (p Probe) Ping(ctx context.Context) error {
	if p.Client == nil {
		return fmt.Errorf("platform/cache: no client")
	}
	return p.Client.Ping(ctx).Err()
}
