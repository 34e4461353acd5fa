package billing

import (
	"time"
)

// Subscription is a subscriber's single lifetime enrollment record. At most
// one subscription ever exists per subscriber; renewal extends the same
// record. The Active flag is set at creation and never cleared -- there is no
// cancellation path in this system.
type Subscription struct {
	Subscriber   AccountID
	PlanID       int64
	StartDate    time.Time
	EndDate      time.Time
	Active       bool
	AutoRenew    bool
	TotalPaid    int64
	PaymentCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSubscription creates a subscription starting at now and running for the
// given number of months. The initial payment amount is recorded as the first
// payment.
func NewSubscription(subscriber AccountID, planID int64, durationMonths int, amountPaid int64, now time.Time) *Subscription {
	return &Subscription{
		Subscriber:   subscriber,
		PlanID:       planID,
		StartDate:    now,
		EndDate:      now.Add(time.Duration(durationMonths) * MonthDuration),
		Active:       true,
		AutoRenew:    false,
		TotalPaid:    amountPaid,
		PaymentCount: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsValid reports whether the subscription grants access at the given
// instant: the active flag is set and the end date has not passed.
func (s *Subscription) IsValid(now time.Time) bool {
	return s.Active && !s.EndDate.Before(now)
}

// Extend pushes the end date forward by the given number of months and
// accumulates the renewal payment. Extension is additive to the previous end
// date, not to the current time: a lapsed subscriber keeps the window already
// paid for.
func (s *Subscription) Extend(durationMonths int, amountPaid int64, now time.Time) {
	s.EndDate = s.EndDate.Add(time.Duration(durationMonths) * MonthDuration)
	s.TotalPaid += amountPaid
	s.PaymentCount++
	s.UpdatedAt = now
}
