package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache tags for entity list views. Writes to an entity family invalidate
// its tag so stale lists are never served.
const (
	TagOpportunities = "opportunities"
	TagApplications  = "applications"
	TagVisits        = "visit_requests"
	TagAssignments   = "trainer_assignments"
	TagMaterials     = "materials"
	TagHealthCards   = "health_cards"
	TagArticles      = "articles"
	TagChapters      = "chapters"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache is a small read-through cache over Redis with tag invalidation.
// Every operation is best effort: a Redis failure is logged and treated
// as a miss, never surfaced to the caller.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New creates a Cache backed by a Redis client
func New(cfg Config, logger zerolog.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Ping verifies the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client
func (c *Cache) Close() error {
	return c.client.Close()
}

func tagSetKey(tag string) string {
	return fmt.Sprintf("tag:%s", tag)
}

// Get loads a cached value into dest. Returns false on miss or error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache entry unmarshal failed")
		return false
	}
	return true
}

// Set stores a value under key and associates it with the given tags
func (c *Cache) Set(ctx context.Context, key string, value interface{}, tags ...string) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache entry marshal failed")
		return
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, c.ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagSetKey(tag), key)
		pipe.Expire(ctx, tagSetKey(tag), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Invalidate drops every cached entry associated with the given tags
func (c *Cache) Invalidate(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		keys, err := c.client.SMembers(ctx, tagSetKey(tag)).Result()
		if err != nil {
			c.logger.Warn().Err(err).Str("tag", tag).Msg("Cache tag lookup failed")
			continue
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn().Err(err).Str("tag", tag).Msg("Cache invalidation failed")
				continue
			}
		}
		if err := c.client.Del(ctx, tagSetKey(tag)).Err(); err != nil {
			c.logger.Warn().Err(err).Str("tag", tag).Msg("Cache tag cleanup failed")
		}
		c.logger.Debug().Str("tag", tag).Int("entries", len(keys)).Msg("Cache tag invalidated")
	}
}
