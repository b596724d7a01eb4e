package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "shopdesk:chart"

// Cache stores rendered chart bodies in Redis. Keys embed the workspace
// generation and revision, so any mutation or rebuild makes older entries
// unreachable and they age out through the TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key composes the cache key for one chart of one workspace generation and
// revision.
func Key(workspace, generation string, revision uint64, chart string) string {
	return strings.Join([]string{cachePrefix, workspace, generation, strconv.FormatUint(revision, 10), chart}, ":")
}

// Fetch returns the cached body for key or renders and stores it.
func (c *Cache) Fetch(ctx context.Context, key string, render func(context.Context) ([]byte, error)) ([]byte, error) {
	if render == nil {
		return nil, errors.New("cache: render func required")
	}
	if c == nil || c.client == nil {
		return render(ctx)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	payload, err = render(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("cache set: %w", err)
	}
	return payload, nil
}
