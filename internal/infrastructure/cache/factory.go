package cache

import (
	"fmt"

	appbilling "github.com/subhub/backend/internal/application/billing"
	"github.com/subhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Interface guards
var (
	_ appbilling.PlanCache = (*InMemoryPlanCache)(nil)
	_ appbilling.PlanCache = (*RedisPlanCache)(nil)
)

// PlanCacheFactory creates plan caches based on configuration
type PlanCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PlanCacheFactoryOption is a functional option for configuring the factory
type PlanCacheFactoryOption func(*PlanCacheFactory)

// WithLogger sets the logger for the factory and the caches it creates
func WithLogger(logger *zap.Logger) PlanCacheFactoryOption {
	return func(f *PlanCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PlanCacheFactoryOption {
	return func(f *PlanCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPlanCacheFactory creates a new factory
func NewPlanCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...PlanCacheFactoryOption) *PlanCacheFactory {
	f := &PlanCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a plan cache for the configured driver. With driver
// "none" it returns a nil cache; callers treat nil as caching disabled.
func (f *PlanCacheFactory) CreateCache() (appbilling.PlanCache, error) {
	switch f.cacheConfig.Driver {
	case "none":
		f.logger.Info("plan caching disabled")
		return nil, nil
	case "memory":
		f.logger.Info("using in-memory plan cache")
		return f.createInMemoryCache(), nil
	case "redis":
		cache, err := f.createRedisCache()
		if err == nil {
			f.logger.Info("using Redis plan cache")
			return cache, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for plan cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory plan cache. "+
			"Cached plans will not be shared across instances.",
			zap.Error(err),
		)
		return f.createInMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", f.cacheConfig.Driver)
	}
}

func (f *PlanCacheFactory) createRedisCache() (*RedisPlanCache, error) {
	return NewRedisPlanCache(RedisCacheConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
		TTL:      f.cacheConfig.TTL,
	}, f.logger)
}

func (f *PlanCacheFactory) createInMemoryCache() *InMemoryPlanCache {
	return NewInMemoryPlanCache(
		WithInMemoryTTL(f.cacheConfig.TTL),
		WithInMemoryLogger(f.logger),
	)
}
