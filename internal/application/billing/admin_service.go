package billing

import (
	"context"
	"time"

	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/domain/shared"
	"github.com/subhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// BulkRequest describes one administrative bulk dispatch.
type BulkRequest struct {
	Operation      billing.BulkOperation
	Subscribers    []billing.AccountID
	PlanID         int64
	DurationMonths int
}

// BulkResult is the operation-specific summary of a bulk dispatch. Fields
// irrelevant to the dispatched operation are left at their zero value.
type BulkResult struct {
	Operation             billing.BulkOperation `json:"operation"`
	PlanName              string                `json:"plan_name,omitempty"`
	ProcessedCount        int                   `json:"processed_count"`
	TotalRevenueAdded     int64                 `json:"total_revenue_added"`
	NewSubscriberCount    int                   `json:"new_subscriber_count"`
	RenewalsProcessed     int                   `json:"renewals_processed"`
	AccessGrantsProcessed int                   `json:"access_grants_processed"`
	GrantedServices       []string              `json:"granted_services,omitempty"`
	TotalRevenue          int64                 `json:"total_revenue"`
	TotalSubscribers      int64                 `json:"total_subscribers"`
}

// AdminService dispatches owner-restricted bulk operations across a bounded
// list of subscribers. It is the only component that iterates over multiple
// subscribers within one call.
//
// bulk-subscribe and bulk-renew intentionally run a per-subscriber helper
// that only advances the payment-id sequence: no subscription, payment or
// access rows are written, while the aggregate counters still move. This
// asymmetry with the single-subscriber path is preserved as specified
// behavior; see DESIGN.md.
type AdminService struct {
	store  billing.Store
	clock  shared.Clock
	owner  billing.AccountID
	logger *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(store billing.Store, clock shared.Clock, owner billing.AccountID, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:  store,
		clock:  clock,
		owner:  owner,
		logger: logger,
	}
}

// ProcessBulk validates the batch once (owner, plan, list bounds) and then
// dispatches on the operation variant. Individual list entries are never
// validated or rejected.
func (s *AdminService) ProcessBulk(ctx context.Context, caller billing.AccountID, req BulkRequest) (*BulkResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "admin", "process_bulk")
	defer span.End()

	if caller != s.owner {
		telemetry.RecordError(span, billing.ErrNotAuthorized)
		return nil, billing.ErrNotAuthorized
	}

	now := s.clock.Now()
	var result *BulkResult
	err := s.store.Atomically(ctx, func(tx billing.Tx) error {
		plan, err := tx.Plans().FindByID(ctx, req.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return billing.ErrPlanNotFound
		}
		if !plan.Active {
			return billing.ErrInvalidPlan
		}
		if len(req.Subscribers) == 0 || len(req.Subscribers) > billing.MaxBulkSubscribers {
			return billing.ErrInvalidAmount
		}

		costPerSubscription := plan.CostFor(req.DurationMonths)
		totalCost := costPerSubscription * int64(len(req.Subscribers))

		switch req.Operation {
		case billing.BulkSubscribe:
			result, err = s.bulkSubscribe(ctx, tx, plan, req.Subscribers, totalCost)
		case billing.BulkRenew:
			result, err = s.bulkRenew(ctx, tx, plan, req.Subscribers, totalCost)
		case billing.BulkGrantAccess:
			result, err = s.bulkGrantAccess(ctx, tx, plan, req.Subscribers, now)
		case billing.AnalyticsReport:
			result, err = s.analyticsReport(ctx, tx)
		default:
			// Unrecognized names are normalized to AnalyticsReport at the
			// boundary; treat a stray value the same way.
			result, err = s.analyticsReport(ctx, tx)
		}
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("bulk operation processed",
		zap.String("operation", string(req.Operation)),
		zap.Int("subscribers", len(req.Subscribers)),
		zap.Int64("plan_id", req.PlanID))
	return result, nil
}

// advancePaymentSequence is the per-subscriber helper used by bulk-subscribe
// and bulk-renew. It consumes one payment id and writes nothing else.
func (s *AdminService) advancePaymentSequence(ctx context.Context, tx billing.Tx) error {
	_, err := tx.Counters().NextPaymentID(ctx)
	return err
}

func (s *AdminService) bulkSubscribe(ctx context.Context, tx billing.Tx, plan *billing.Plan, subscribers []billing.AccountID, totalCost int64) (*BulkResult, error) {
	for range subscribers {
		if err := s.advancePaymentSequence(ctx, tx); err != nil {
			return nil, err
		}
	}
	if err := tx.Counters().AddRevenue(ctx, totalCost); err != nil {
		return nil, err
	}
	if err := tx.Counters().AddActiveSubscribers(ctx, int64(len(subscribers))); err != nil {
		return nil, err
	}

	stats, err := tx.Counters().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &BulkResult{
		Operation:          billing.BulkSubscribe,
		PlanName:           plan.Name,
		ProcessedCount:     len(subscribers),
		TotalRevenueAdded:  totalCost,
		NewSubscriberCount: len(subscribers),
		TotalRevenue:       stats.TotalRevenue,
		TotalSubscribers:   stats.ActiveSubscribers,
	}, nil
}

func (s *AdminService) bulkRenew(ctx context.Context, tx billing.Tx, plan *billing.Plan, subscribers []billing.AccountID, totalCost int64) (*BulkResult, error) {
	for range subscribers {
		if err := s.advancePaymentSequence(ctx, tx); err != nil {
			return nil, err
		}
	}
	if err := tx.Counters().AddRevenue(ctx, totalCost); err != nil {
		return nil, err
	}

	stats, err := tx.Counters().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &BulkResult{
		Operation:         billing.BulkRenew,
		PlanName:          plan.Name,
		RenewalsProcessed: len(subscribers),
		TotalRevenueAdded: totalCost,
		TotalRevenue:      stats.TotalRevenue,
		TotalSubscribers:  stats.ActiveSubscribers,
	}, nil
}

func (s *AdminService) bulkGrantAccess(ctx context.Context, tx billing.Tx, plan *billing.Plan, subscribers []billing.AccountID, now time.Time) (*BulkResult, error) {
	for _, subscriber := range subscribers {
		if err := s.grantPremiumAccess(ctx, tx, subscriber, now); err != nil {
			return nil, err
		}
	}

	stats, err := tx.Counters().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &BulkResult{
		Operation:             billing.BulkGrantAccess,
		PlanName:              plan.Name,
		AccessGrantsProcessed: len(subscribers),
		GrantedServices:       billing.PremiumServiceBundle(),
		TotalRevenue:          stats.TotalRevenue,
		TotalSubscribers:      stats.ActiveSubscribers,
	}, nil
}

func (s *AdminService) analyticsReport(ctx context.Context, tx billing.Tx) (*BulkResult, error) {
	stats, err := tx.Counters().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &BulkResult{
		Operation:        billing.AnalyticsReport,
		TotalRevenue:     stats.TotalRevenue,
		TotalSubscribers: stats.ActiveSubscribers,
	}, nil
}

// grantPremiumAccess unconditionally grants the premium service bundle to the
// given subscriber, without checking for any subscription.
func (s *AdminService) grantPremiumAccess(ctx context.Context, tx billing.Tx, subscriber billing.AccountID, now time.Time) error {
	for _, service := range billing.PremiumServiceBundle() {
		if err := tx.Access().Save(ctx, billing.NewAccessEntry(subscriber, service, now)); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the current revenue aggregates read-only.
func (s *AdminService) Stats(ctx context.Context) (billing.RevenueStats, error) {
	var stats billing.RevenueStats
	err := s.store.View(ctx, func(tx billing.Tx) error {
		var err error
		stats, err = tx.Counters().Stats(ctx)
		return err
	})
	return stats, err
}
