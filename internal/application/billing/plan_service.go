package billing

import (
	"context"

	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/domain/shared"
	"github.com/subhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PlanCache caches plan lookups outside the transactional store. Implemented
// by the infrastructure cache package (Redis or in-memory).
type PlanCache interface {
	Get(ctx context.Context, id int64) (*billing.Plan, bool)
	Set(ctx context.Context, plan *billing.Plan)
}

// CreatePlanInput carries the attributes of a new plan.
type CreatePlanInput struct {
	Name          string
	PricePerMonth int64
	MaxUsers      int
	Features      string
}

// PlanService implements the plan registry: owner-restricted plan creation
// and open plan lookup.
type PlanService struct {
	store  billing.Store
	clock  shared.Clock
	owner  billing.AccountID
	cache  PlanCache
	logger *zap.Logger
}

// NewPlanService creates a new PlanService. cache may be nil.
func NewPlanService(store billing.Store, clock shared.Clock, owner billing.AccountID, cache PlanCache, logger *zap.Logger) *PlanService {
	return &PlanService{
		store:  store,
		clock:  clock,
		owner:  owner,
		cache:  cache,
		logger: logger,
	}
}

// CreatePlan creates a new subscription plan and returns its id. Only the
// designated owner may create plans; the price must be positive.
func (s *PlanService) CreatePlan(ctx context.Context, caller billing.AccountID, in CreatePlanInput) (int64, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plan", "create_plan")
	defer span.End()

	if caller != s.owner {
		telemetry.RecordError(span, billing.ErrNotAuthorized)
		return 0, billing.ErrNotAuthorized
	}
	if in.PricePerMonth <= 0 {
		telemetry.RecordError(span, billing.ErrInvalidAmount)
		return 0, billing.ErrInvalidAmount
	}

	now := s.clock.Now()
	var plan *billing.Plan
	err := s.store.Atomically(ctx, func(tx billing.Tx) error {
		id, err := tx.Counters().NextPlanID(ctx)
		if err != nil {
			return err
		}
		plan, err = billing.NewPlan(id, in.Name, in.PricePerMonth, in.MaxUsers, in.Features, now)
		if err != nil {
			return err
		}
		return tx.Plans().Save(ctx, plan)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, plan)
	}
	s.logger.Info("plan created",
		zap.Int64("plan_id", plan.ID),
		zap.String("name", plan.Name),
		zap.Int64("price_per_month", plan.PricePerMonth))
	return plan.ID, nil
}

// GetPlan returns the plan with the given id, or ErrPlanNotFound.
func (s *PlanService) GetPlan(ctx context.Context, id int64) (*billing.Plan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "plan", "get_plan")
	defer span.End()

	if s.cache != nil {
		if plan, ok := s.cache.Get(ctx, id); ok {
			return plan, nil
		}
	}

	var plan *billing.Plan
	err := s.store.View(ctx, func(tx billing.Tx) error {
		var err error
		plan, err = tx.Plans().FindByID(ctx, id)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if plan == nil {
		return nil, billing.ErrPlanNotFound
	}

	if s.cache != nil {
		s.cache.Set(ctx, plan)
	}
	return plan, nil
}
