package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/infrastructure/redis"
)

const listingKey = "jobs:visible"

// RedisListingCache caches the public job listing in Redis. Cache failures
// degrade to the database; they never fail a request.
type RedisListingCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisListingCache creates a new listing cache
func NewRedisListingCache(redisClient *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisListingCache {
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisListingCache{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// GetJobs returns the cached listing, or false on miss or error
func (c *RedisListingCache) GetJobs(ctx context.Context) ([]*domain.JobWithCompany, bool) {
	data, err := c.redis.Get(ctx, listingKey)
	if err != nil {
		if !redis.IsMiss(err) {
			c.logger.Warn("listing cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var jobs []*domain.JobWithCompany
	if err := json.Unmarshal([]byte(data), &jobs); err != nil {
		c.logger.Warn("listing cache entry corrupt", slog.String("error", err.Error()))
		return nil, false
	}

	return jobs, true
}

// SetJobs stores the listing with the configured TTL
func (c *RedisListingCache) SetJobs(ctx context.Context, jobs []*domain.JobWithCompany) {
	data, err := json.Marshal(jobs)
	if err != nil {
		c.logger.Warn("failed to marshal listing", slog.String("error", err.Error()))
		return
	}

	if err := c.redis.Set(ctx, listingKey, string(data), c.ttl); err != nil {
		c.logger.Warn("listing cache write failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached listing after a job create or visibility flip
func (c *RedisListingCache) Invalidate(ctx context.Context) {
	if err := c.redis.Delete(ctx, listingKey); err != nil {
		c.logger.Warn("listing cache invalidation failed", slog.String("error", err.Error()))
	}
}
