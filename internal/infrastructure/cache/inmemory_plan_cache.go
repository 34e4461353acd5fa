package cache

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/subhub/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
	defaultPlanTTL         = 5 * time.Minute
)

// InMemoryPlanCache caches plans in process memory. It is suitable for
// single-instance deployments and as a fallback when Redis is unavailable.
type InMemoryPlanCache struct {
	plans   sync.Map // map[string]*planEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// planEntry wraps a cached plan with its expiration time
type planEntry struct {
	plan      *billing.Plan
	expiresAt time.Time
}

func (e *planEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryPlanCacheOption is a functional option for configuring the cache
type InMemoryPlanCacheOption func(*InMemoryPlanCache)

// WithInMemoryTTL sets the entry time-to-live
func WithInMemoryTTL(ttl time.Duration) InMemoryPlanCacheOption {
	return func(c *InMemoryPlanCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryPlanCacheOption {
	return func(c *InMemoryPlanCache) {
		c.logger = logger
	}
}

// NewInMemoryPlanCache creates a new in-memory plan cache
func NewInMemoryPlanCache(opts ...InMemoryPlanCacheOption) *InMemoryPlanCache {
	cache := &InMemoryPlanCache{
		ttl:    defaultPlanTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

func planCacheKey(id int64) string {
	return "plan:" + strconv.FormatInt(id, 10)
}

// Get retrieves a plan from cache. The second return value reports whether
// a live entry was found.
func (c *InMemoryPlanCache) Get(ctx context.Context, id int64) (*billing.Plan, bool) {
	key := planCacheKey(id)

	if value, ok := c.plans.Load(key); ok {
		entry := value.(*planEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("plan cache hit", zap.Int64("plan_id", id))
			return entry.plan, true
		}
		// Expired, remove from cache
		c.plans.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("plan cache miss", zap.Int64("plan_id", id))
	return nil, false
}

// Set stores a plan in cache
func (c *InMemoryPlanCache) Set(ctx context.Context, plan *billing.Plan) {
	if plan == nil {
		return
	}

	entry := &planEntry{
		plan:      plan,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.plans.Store(planCacheKey(plan.ID), entry)
	c.logger.Debug("cached plan",
		zap.Int64("plan_id", plan.ID),
		zap.Duration("ttl", c.ttl))
}

// Delete removes a plan from cache
func (c *InMemoryPlanCache) Delete(ctx context.Context, id int64) {
	c.plans.Delete(planCacheKey(id))
}

// Close stops the background cleanup goroutine
func (c *InMemoryPlanCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryPlanCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache
func (c *InMemoryPlanCache) Count() int {
	count := 0
	c.plans.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryPlanCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.doCleanup()
		}
	}
}

func (c *InMemoryPlanCache) doCleanup() {
	removed := 0
	c.plans.Range(func(key, value any) bool {
		if value.(*planEntry).isExpired() {
			c.plans.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("cleaned up expired plan cache entries", zap.Int("removed", removed))
	}
}
