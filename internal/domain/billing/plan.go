package billing

import (
	"time"
)

// Plan represents a priced, named service tier. Plans are created through the
// plan registry and are never deleted or re-priced; the id comes from a
// strictly increasing counter starting at 1.
type Plan struct {
	ID            int64
	Name          string
	PricePerMonth int64
	MaxUsers      int
	Features      string
	Active        bool
	CreatedAt     time.Time
}

// NewPlan creates a new active plan. The price must be positive; the id is
// assigned by the caller from the plan counter.
func NewPlan(id int64, name string, pricePerMonth int64, maxUsers int, features string, now time.Time) (*Plan, error) {
	if pricePerMonth <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Plan{
		ID:            id,
		Name:          name,
		PricePerMonth: pricePerMonth,
		MaxUsers:      maxUsers,
		Features:      features,
		Active:        true,
		CreatedAt:     now,
	}, nil
}

// CostFor returns the total cost of subscribing to this plan for the given
// number of months.
func (p *Plan) CostFor(durationMonths int) int64 {
	return p.PricePerMonth * int64(durationMonths)
}
