package billing

import "time"

// Service names granted to every new subscriber. The bundle is deliberately
// plan-independent: the purchased tier does not differentiate which services
// are granted.
const (
	ServiceStreaming      = "streaming"
	ServiceDownloads      = "downloads"
	ServiceAPIAccess      = "api-access"
	ServicePremiumSupport = "premium-support"
)

// Service names granted by the administrative bulk access operation.
const (
	ServicePremiumFeatures = "premium-features"
	ServicePrioritySupport = "priority-support"
	ServiceBetaAccess      = "beta-access"
)

// PlanServiceBundle returns the services granted on every successful
// subscription.
func PlanServiceBundle() []string {
	return []string{ServiceStreaming, ServiceDownloads, ServiceAPIAccess, ServicePremiumSupport}
}

// PremiumServiceBundle returns the services granted by bulk premium access.
func PremiumServiceBundle() []string {
	return []string{ServicePremiumFeatures, ServicePrioritySupport, ServiceBetaAccess}
}

// AccessEntry records a boolean grant of one named service to one subscriber.
// Entries are written when access is granted and are independent of
// subscription validity at write time; validity is enforced only when access
// is read back. LastAccessed is written once at creation and never updated.
type AccessEntry struct {
	Subscriber   AccountID
	Service      string
	HasAccess    bool
	GrantedAt    time.Time
	LastAccessed time.Time
}

// NewAccessEntry creates a granted access entry for one service.
func NewAccessEntry(subscriber AccountID, service string, now time.Time) *AccessEntry {
	return &AccessEntry{
		Subscriber: subscriber,
		Service:    service,
		HasAccess:  true,
		GrantedAt:  now,
	}
}
