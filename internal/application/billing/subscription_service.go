package billing

import (
	"context"
	"time"

	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/domain/shared"
	"github.com/subhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SubscribeResult is returned by a successful Subscribe call.
type SubscribeResult struct {
	Created    bool      `json:"created"`
	EndDate    time.Time `json:"end_date"`
	AmountPaid int64     `json:"amount_paid"`
}

// RenewResult is returned by a successful Renew call.
type RenewResult struct {
	Renewed    bool      `json:"renewed"`
	NewEndDate time.Time `json:"new_end_date"`
	AmountPaid int64     `json:"amount_paid"`
}

// SubscriptionService implements the subscription lifecycle and the
// access-check path. Every operation is one atomic transaction over the
// billing store, with the logical clock sampled once at entry.
type SubscriptionService struct {
	store  billing.Store
	clock  shared.Clock
	logger *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(store billing.Store, clock shared.Clock, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Subscribe enrolls the caller in the given plan for durationMonths months.
// It writes the subscription record, appends the initial payment, grants the
// plan service bundle and bumps both revenue aggregates, all in one
// transaction.
func (s *SubscriptionService) Subscribe(ctx context.Context, caller billing.AccountID, planID int64, durationMonths int) (*SubscribeResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "subscription", "subscribe")
	defer span.End()

	now := s.clock.Now()
	var result *SubscribeResult
	err := s.store.Atomically(ctx, func(tx billing.Tx) error {
		plan, err := tx.Plans().FindByID(ctx, planID)
		if err != nil {
			return err
		}
		if plan == nil {
			return billing.ErrPlanNotFound
		}
		if !plan.Active {
			return billing.ErrInvalidPlan
		}

		cost := plan.CostFor(durationMonths)
		if cost < billing.MinSubscriptionAmount {
			return billing.ErrInsufficientPayment
		}

		// One subscription per subscriber for the lifetime of the system,
		// regardless of the existing record's validity.
		existing, err := tx.Subscriptions().FindBySubscriber(ctx, caller)
		if err != nil {
			return err
		}
		if existing != nil {
			return billing.ErrAlreadySubscribed
		}

		sub := billing.NewSubscription(caller, planID, durationMonths, cost, now)
		if err := tx.Subscriptions().Save(ctx, sub); err != nil {
			return err
		}

		paymentID, err := tx.Counters().NextPaymentID(ctx)
		if err != nil {
			return err
		}
		payment := billing.NewPaymentRecord(paymentID, caller, planID, cost, billing.PaymentTypeInitial, now)
		if err := tx.Payments().Append(ctx, payment); err != nil {
			return err
		}

		if err := s.grantPlanServices(ctx, tx, caller, now); err != nil {
			return err
		}

		if err := tx.Counters().AddRevenue(ctx, cost); err != nil {
			return err
		}
		if err := tx.Counters().AddActiveSubscribers(ctx, 1); err != nil {
			return err
		}

		result = &SubscribeResult{Created: true, EndDate: sub.EndDate, AmountPaid: cost}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("subscriber", caller.String()),
		zap.Int64("plan_id", planID),
		zap.Int("duration_months", durationMonths),
		zap.Int64("amount_paid", result.AmountPaid))
	return result, nil
}

// Renew extends the caller's subscription by durationMonths months. The
// extension is anchored to the previous end date, so a lapsed subscriber's
// already-purchased window is preserved. Renewal checks the active flag only,
// not expiry: an expired-but-active subscription can renew.
func (s *SubscriptionService) Renew(ctx context.Context, caller billing.AccountID, durationMonths int) (*RenewResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "subscription", "renew")
	defer span.End()

	now := s.clock.Now()
	var result *RenewResult
	err := s.store.Atomically(ctx, func(tx billing.Tx) error {
		sub, err := tx.Subscriptions().FindBySubscriber(ctx, caller)
		if err != nil {
			return err
		}
		if sub == nil {
			return billing.ErrSubscriptionNotFound
		}

		plan, err := tx.Plans().FindByID(ctx, sub.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return billing.ErrPlanNotFound
		}

		if !sub.Active {
			return billing.ErrSubscriptionInactive
		}

		cost := plan.CostFor(durationMonths)
		if cost < billing.MinSubscriptionAmount {
			return billing.ErrInsufficientPayment
		}

		sub.Extend(durationMonths, cost, now)
		if err := tx.Subscriptions().Save(ctx, sub); err != nil {
			return err
		}

		paymentID, err := tx.Counters().NextPaymentID(ctx)
		if err != nil {
			return err
		}
		payment := billing.NewPaymentRecord(paymentID, caller, sub.PlanID, cost, billing.PaymentTypeRenewal, now)
		if err := tx.Payments().Append(ctx, payment); err != nil {
			return err
		}

		// Renewal adds revenue but not subscribers.
		if err := tx.Counters().AddRevenue(ctx, cost); err != nil {
			return err
		}

		result = &RenewResult{Renewed: true, NewEndDate: sub.EndDate, AmountPaid: cost}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("subscription renewed",
		zap.String("subscriber", caller.String()),
		zap.Int("duration_months", durationMonths),
		zap.Int64("amount_paid", result.AmountPaid))
	return result, nil
}

// CheckServiceAccess reports whether the caller currently has access to the
// named service. The subscription must exist and be within its validity
// window; an absent access entry is a legitimate "no access" answer, not an
// error.
func (s *SubscriptionService) CheckServiceAccess(ctx context.Context, caller billing.AccountID, service string) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "subscription", "check_service_access")
	defer span.End()

	now := s.clock.Now()
	var hasAccess bool
	err := s.store.View(ctx, func(tx billing.Tx) error {
		sub, err := tx.Subscriptions().FindBySubscriber(ctx, caller)
		if err != nil {
			return err
		}
		if sub == nil {
			return billing.ErrSubscriptionNotFound
		}
		if !sub.IsValid(now) {
			return billing.ErrSubscriptionExpired
		}

		entry, err := tx.Access().Find(ctx, caller, service)
		if err != nil {
			return err
		}
		if entry == nil {
			hasAccess = false
			return nil
		}
		hasAccess = entry.HasAccess
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}
	return hasAccess, nil
}

// GetPayment returns the payment record with the given ledger id, or nil if
// no such record exists.
func (s *SubscriptionService) GetPayment(ctx context.Context, id int64) (*billing.PaymentRecord, error) {
	var record *billing.PaymentRecord
	err := s.store.View(ctx, func(tx billing.Tx) error {
		var err error
		record, err = tx.Payments().FindByID(ctx, id)
		return err
	})
	return record, err
}

// grantPlanServices writes access entries for the fixed plan-independent
// service bundle. Every successful subscription grants the same bundle
// regardless of tier.
func (s *SubscriptionService) grantPlanServices(ctx context.Context, tx billing.Tx, subscriber billing.AccountID, now time.Time) error {
	for _, service := range billing.PlanServiceBundle() {
		if err := tx.Access().Save(ctx, billing.NewAccessEntry(subscriber, service, now)); err != nil {
			return err
		}
	}
	return nil
}
