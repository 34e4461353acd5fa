package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := &FixedClock{T: at}

	assert.Equal(t, at, clock.Now())

	clock.T = at.Add(24 * time.Hour)
	assert.Equal(t, at.Add(24*time.Hour), clock.Now())
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := SystemClock{}.Now()
	after := time.Now()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
}
