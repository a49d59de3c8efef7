// Copyright (c) 2026 Atmos. All rights reserved.
// Author: devhammad

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devhammad/atmos/internal/platform/constants"
	"github.com/devhammad/atmos/pkg/slug"
)

// RedisLatestCache implements LatestCache using Redis.
//
// Entries are stored as JSON under a slugged city key, so "São Paulo" and
// "sao paulo" resolve to the same entry. Owner-scoped lookups get their own
// key space and never collide with the global one.
type RedisLatestCache struct {
	client *redis.Client
}

// NewLatestCache creates a new Redis-backed LatestCache.
func NewLatestCache(client *redis.Client) *RedisLatestCache {
	return &RedisLatestCache{client: client}
}

// cacheKey builds the Redis key for a city/owner pair.
func cacheKey(city, ownerID string) string {
	scope := "global"
	if ownerID != "" {
		scope = ownerID
	}
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixLatestObservation, slug.From(city), scope)
}

// GetLatest returns the cached observation for the city, or nil on a miss.
//
// A decode failure is treated as a miss: the stale entry is dropped and the
// caller reloads from Postgres.
func (cache *RedisLatestCache) GetLatest(ctx context.Context, city, ownerID string) (*Observation, error) {
	key := cacheKey(city, ownerID)

	payload, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_latest_get_failed: %w", err)
	}

	observation := &Observation{}
	if err := json.Unmarshal(payload, observation); err != nil {
		_ = cache.client.Del(ctx, key).Err()
		return nil, nil
	}

	return observation, nil
}

// SetLatest stores the observation under the city/scope key with a TTL.
func (cache *RedisLatestCache) SetLatest(ctx context.Context, city, ownerID string, observation *Observation, ttl time.Duration) error {
	payload, err := json.Marshal(observation)
	if err != nil {
		return fmt.Errorf("redis_latest_marshal_failed: %w", err)
	}

	key := cacheKey(city, ownerID)
	if err := cache.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_latest_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops the cached entries touched by a write to the given city.
//
// Both the owner-scoped key and the global key are cleared, since a new
// reading may change the answer for either audience.
func (cache *RedisLatestCache) Invalidate(ctx context.Context, city, ownerID string) error {
	keys := []string{cacheKey(city, "")}
	if ownerID != "" {
		keys = append(keys, cacheKey(city, ownerID))
	}

	if err := cache.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis_latest_invalidate_failed: %w", err)
	}

	return nil
}
