package billing

import "time"

// Time arithmetic uses fixed-length months of 30 days, matching the billing
// ledger's second-based accounting.
const (
	SecondsPerDay   = 86400
	SecondsPerMonth = 2592000

	// MonthDuration is SecondsPerMonth expressed as a time.Duration.
	MonthDuration = SecondsPerMonth * time.Second

	// MinSubscriptionAmount is the smallest total cost (price * months)
	// accepted by subscribe and renew.
	MinSubscriptionAmount = 1000

	// MaxBulkSubscribers bounds the subscriber list of a bulk operation.
	MaxBulkSubscribers = 50
)

// AccountID identifies a subscriber account. Identity is issued by the
// external identity provider; the billing core treats it as opaque.
type AccountID string

// String returns the account id as a plain string.
func (a AccountID) String() string {
	return string(a)
}
