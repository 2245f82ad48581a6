package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gokulprasathd90/event-ticketing/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventCache is a read cache for event detail lookups. Every mutation that
// touches an event or its inventory counters must invalidate the entry; a miss
// is reported as (nil, nil) so callers fall through to the database.
type EventCache interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Set(ctx context.Context, event *model.Event) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type RedisEventCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) EventCache {
	return &RedisEventCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisEventCache) key(id uuid.UUID) string {
	return fmt.Sprintf("event:%s", id)
}

func (c *RedisEventCache) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, nil
	}
	return &event, nil
}

func (c *RedisEventCache) Set(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.client.Set(ctx, c.key(event.ID), data, c.ttl).Err()
}

func (c *RedisEventCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
