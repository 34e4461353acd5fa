package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorIs(t *testing.T) {
	base := NewDomainError(104, "PaymentFailed", "Insufficient payment amount")

	t.Run("matches same code", func(t *testing.T) {
		other := NewDomainError(104, "PaymentFailed", "different message")
		assert.True(t, errors.Is(base, other))
	})

	t.Run("does not match different code", func(t *testing.T) {
		other := NewDomainError(105, "PlanNotFound", "Plan not found")
		assert.False(t, errors.Is(base, other))
	})

	t.Run("does not match plain error", func(t *testing.T) {
		assert.False(t, errors.Is(base, errors.New("Insufficient payment amount")))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("subscribe: %w", base)
		assert.True(t, errors.Is(wrapped, NewDomainError(104, "PaymentFailed", "")))
		assert.Equal(t, 104, CodeOf(wrapped))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, 102, CodeOf(NewDomainError(102, "SubscriptionNotFound", "No subscription")))
	assert.Equal(t, 0, CodeOf(errors.New("not a domain error")))
	assert.Equal(t, 0, CodeOf(nil))
}
