package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/subhub/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// RedisPlanCache caches plans in Redis so that lookups are shared across
// instances. Values are stored as JSON under a "plan:<id>" key.
type RedisPlanCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisCacheConfig holds Redis connection configuration for the plan cache
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisPlanCache creates a new Redis-backed plan cache. It pings the
// server so that misconfiguration surfaces at startup rather than on the
// first request.
func NewRedisPlanCache(cfg RedisCacheConfig, logger *zap.Logger) (*RedisPlanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultPlanTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisPlanCache{
		client:    client,
		keyPrefix: "plan:",
		ttl:       ttl,
		logger:    logger,
	}, nil
}

func (c *RedisPlanCache) key(id int64) string {
	return fmt.Sprintf("%s%d", c.keyPrefix, id)
}

// Get retrieves a plan from Redis. Connection or decode errors are treated
// as misses so that a degraded cache never blocks plan reads.
func (c *RedisPlanCache) Get(ctx context.Context, id int64) (*billing.Plan, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("plan cache read failed", zap.Int64("plan_id", id), zap.Error(err))
		}
		return nil, false
	}

	var plan billing.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		c.logger.Warn("plan cache entry corrupt, dropping", zap.Int64("plan_id", id), zap.Error(err))
		c.client.Del(ctx, c.key(id))
		return nil, false
	}

	return &plan, true
}

// Set stores a plan in Redis with the configured TTL
func (c *RedisPlanCache) Set(ctx context.Context, plan *billing.Plan) {
	if plan == nil {
		return
	}

	data, err := json.Marshal(plan)
	if err != nil {
		c.logger.Warn("failed to encode plan for cache", zap.Int64("plan_id", plan.ID), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.key(plan.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("plan cache write failed", zap.Int64("plan_id", plan.ID), zap.Error(err))
	}
}

// Delete removes a plan from Redis
func (c *RedisPlanCache) Delete(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("plan cache delete failed", zap.Int64("plan_id", id), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisPlanCache) Close() error {
	return c.client.Close()
}
