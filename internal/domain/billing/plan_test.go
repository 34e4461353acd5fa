package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates an active plan", func(t *testing.T) {
		plan, err := NewPlan(1, "premium", 1000, 5, "hd,offline", now)

		require.NoError(t, err)
		require.NotNil(t, plan)
		assert.Equal(t, int64(1), plan.ID)
		assert.Equal(t, "premium", plan.Name)
		assert.Equal(t, int64(1000), plan.PricePerMonth)
		assert.Equal(t, 5, plan.MaxUsers)
		assert.True(t, plan.Active)
		assert.Equal(t, now, plan.CreatedAt)
	})

	t.Run("rejects zero price", func(t *testing.T) {
		plan, err := NewPlan(1, "free", 0, 1, "", now)

		require.Nil(t, plan)
		require.True(t, errors.Is(err, ErrInvalidAmount))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewPlan(1, "broken", -50, 1, "", now)
		require.True(t, errors.Is(err, ErrInvalidAmount))
	})
}

func TestPlanCostFor(t *testing.T) {
	plan := &Plan{ID: 1, PricePerMonth: 1500}

	assert.Equal(t, int64(0), plan.CostFor(0))
	assert.Equal(t, int64(1500), plan.CostFor(1))
	assert.Equal(t, int64(18000), plan.CostFor(12))
}
