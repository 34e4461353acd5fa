package billing

// RevenueStats holds the two process-wide running aggregates. TotalRevenue
// grows with every recorded payment amount; ActiveSubscribers grows only when
// a brand-new subscription is created and is never decremented.
type RevenueStats struct {
	TotalRevenue      int64
	ActiveSubscribers int64
}
