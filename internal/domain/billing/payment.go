package billing

import "time"

// PaymentType distinguishes the first payment of a subscription from
// subsequent renewals.
type PaymentType string

const (
	PaymentTypeInitial PaymentType = "initial"
	PaymentTypeRenewal PaymentType = "renewal"
)

// PaymentRecord is an immutable ledger entry for one payment event. Records
// are append-only, keyed by a strictly increasing counter starting at 1, and
// are never mutated or deleted. Amounts are recorded, not moved -- settlement
// happens outside this system.
type PaymentRecord struct {
	ID         int64
	Subscriber AccountID
	PlanID     int64
	Amount     int64
	Date       time.Time
	Type       PaymentType
}

// NewPaymentRecord creates a payment record at the given ledger id.
func NewPaymentRecord(id int64, subscriber AccountID, planID int64, amount int64, paymentType PaymentType, now time.Time) *PaymentRecord {
	return &PaymentRecord{
		ID:         id,
		Subscriber: subscriber,
		PlanID:     planID,
		Amount:     amount,
		Date:       now,
		Type:       paymentType,
	}
}
