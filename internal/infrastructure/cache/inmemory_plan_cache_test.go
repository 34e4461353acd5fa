package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhub/backend/internal/domain/billing"
)

func testPlan(id int64) *billing.Plan {
	return &billing.Plan{
		ID:            id,
		Name:          "premium",
		PricePerMonth: 1500,
		Active:        true,
	}
}

func TestInMemoryPlanCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryPlanCache()
		defer c.Close()

		c.Set(ctx, testPlan(1))

		got, ok := c.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "premium", got.Name)
	})

	t.Run("miss on unknown id", func(t *testing.T) {
		c := NewInMemoryPlanCache()
		defer c.Close()

		got, ok := c.Get(ctx, 42)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewInMemoryPlanCache(WithInMemoryTTL(time.Millisecond))
		defer c.Close()

		c.Set(ctx, testPlan(1))
		time.Sleep(5 * time.Millisecond)

		_, ok := c.Get(ctx, 1)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Count())
	})

	t.Run("delete removes entry", func(t *testing.T) {
		c := NewInMemoryPlanCache()
		defer c.Close()

		c.Set(ctx, testPlan(1))
		c.Delete(ctx, 1)

		_, ok := c.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("nil plan is ignored", func(t *testing.T) {
		c := NewInMemoryPlanCache()
		defer c.Close()

		c.Set(ctx, nil)
		assert.Equal(t, 0, c.Count())
	})

	t.Run("tracks hits and misses", func(t *testing.T) {
		c := NewInMemoryPlanCache()
		defer c.Close()

		c.Set(ctx, testPlan(1))
		c.Get(ctx, 1)
		c.Get(ctx, 2)

		hits, misses := c.GetStats()
		assert.Equal(t, int64(1), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemoryPlanCache()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
	})
}
