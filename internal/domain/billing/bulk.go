package billing

// BulkOperation is the closed set of administrative bulk operations. String
// dispatch at the API boundary is normalized into this type so the
// application layer can switch exhaustively.
type BulkOperation string

const (
	BulkSubscribe   BulkOperation = "bulk-subscribe"
	BulkRenew       BulkOperation = "bulk-renew"
	BulkGrantAccess BulkOperation = "bulk-grant-access"
	AnalyticsReport BulkOperation = "analytics-report"
)

// ParseBulkOperation maps an operation name to its variant. Any unrecognized
// name resolves to AnalyticsReport, which performs no mutation and returns
// the current aggregate snapshot.
func ParseBulkOperation(s string) BulkOperation {
	switch BulkOperation(s) {
	case BulkSubscribe, BulkRenew, BulkGrantAccess:
		return BulkOperation(s)
	default:
		return AnalyticsReport
	}
}

// Known reports whether s names one of the explicit bulk operations,
// including the literal analytics-report.
func (op BulkOperation) Known() bool {
	switch op {
	case BulkSubscribe, BulkRenew, BulkGrantAccess, AnalyticsReport:
		return true
	default:
		return false
	}
}
