// Package cache provides an optional Redis-backed answer cache for the
// retrieval pipeline. All cache operations are best effort: a cache failure
// never fails a query.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/careerkb/profile-agent/internal/pipeline"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RedisAnswerCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisAnswerCache(client *redis.Client, prefix string, ttl time.Duration) *RedisAnswerCache {
	return &RedisAnswerCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisAnswerCache) Get(ctx context.Context, query string) (*pipeline.Result, bool) {
	data, err := c.client.Get(ctx, c.key(query)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Warn().Err(err).Msg("Answer cache read failed")
		return nil, false
	}

	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		log.Warn().Err(err).Msg("Answer cache entry corrupted, ignoring")
		return nil, false
	}
	return &result, true
}

func (c *RedisAnswerCache) Set(ctx context.Context, query string, result *pipeline.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal answer for cache")
		return
	}
	if err := c.client.Set(ctx, c.key(query), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Answer cache write failed")
	}
}

func (c *RedisAnswerCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	return iter.Err()
}

func (c *RedisAnswerCache) key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return c.prefix + hex.EncodeToString(sum[:])
}
