package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscription(t *testing.T) {
	now := time.Unix(1_750_000_000, 0).UTC()

	sub := NewSubscription("acct-1", 3, 2, 2000, now)

	require.NotNil(t, sub)
	assert.Equal(t, AccountID("acct-1"), sub.Subscriber)
	assert.Equal(t, int64(3), sub.PlanID)
	assert.Equal(t, now, sub.StartDate)
	assert.Equal(t, now.Add(2*MonthDuration), sub.EndDate)
	assert.True(t, sub.Active)
	assert.False(t, sub.AutoRenew)
	assert.Equal(t, int64(2000), sub.TotalPaid)
	assert.Equal(t, 1, sub.PaymentCount)
}

func TestSubscriptionIsValid(t *testing.T) {
	now := time.Unix(1_750_000_000, 0).UTC()
	sub := NewSubscription("acct-1", 1, 1, 1000, now)

	t.Run("valid within window", func(t *testing.T) {
		assert.True(t, sub.IsValid(now))
		assert.True(t, sub.IsValid(now.Add(MonthDuration/2)))
	})

	t.Run("valid exactly at end date", func(t *testing.T) {
		assert.True(t, sub.IsValid(sub.EndDate))
	})

	t.Run("invalid after end date", func(t *testing.T) {
		assert.False(t, sub.IsValid(sub.EndDate.Add(time.Second)))
	})

	t.Run("invalid when active flag cleared", func(t *testing.T) {
		inactive := *sub
		inactive.Active = false
		assert.False(t, inactive.IsValid(now))
	})
}

func TestSubscriptionExtend(t *testing.T) {
	now := time.Unix(1_750_000_000, 0).UTC()
	sub := NewSubscription("acct-1", 1, 1, 1000, now)
	previousEnd := sub.EndDate

	// Renew well after expiry: the extension is anchored to the previous end
	// date, not to the renewal time.
	renewedAt := previousEnd.Add(10 * 24 * time.Hour)
	sub.Extend(3, 3000, renewedAt)

	assert.Equal(t, previousEnd.Add(3*MonthDuration), sub.EndDate)
	assert.Equal(t, int64(4000), sub.TotalPaid)
	assert.Equal(t, 2, sub.PaymentCount)
	assert.Equal(t, now, sub.StartDate)
	assert.Equal(t, renewedAt, sub.UpdatedAt)
}
