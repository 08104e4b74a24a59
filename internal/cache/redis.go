package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/staffstream/recommendation-service/internal/domain"
)

// Redis is the production cache backend. Expiry is delegated to Redis TTLs;
// bounded memory is the Redis deployment's concern (maxmemory policy).
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key Key) (domain.RankedPage, bool, error) {
	val, err := c.client.Get(ctx, key.String()).Result()
	if err == redis.Nil {
		return domain.RankedPage{}, false, nil
	}
	if err != nil {
		return domain.RankedPage{}, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var page domain.RankedPage
	if err := json.Unmarshal([]byte(val), &page); err != nil {
		return domain.RankedPage{}, false, fmt.Errorf("unmarshal cached page %s: %w", key, err)
	}
	return page, true, nil
}

func (c *Redis) Set(ctx context.Context, key Key, page domain.RankedPage) error {
	val, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page for cache: %w", err)
	}
	if err := c.client.Set(ctx, key.String(), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// InvalidateUser drops every cached page for the user. Used only when eager
// invalidation is enabled; the default policy lets entries age out.
func (c *Redis) InvalidateUser(ctx context.Context, userID string) error {
	pattern := fmt.Sprintf("rec:user:%s:*", userID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
