package persistence

import (
	"context"
	"errors"

	"github.com/subhub/backend/internal/domain/billing"
	"github.com/subhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements billing.Store on top of a GORM database. Every
// Atomically call maps to one database transaction; the counter row is read
// under a row lock so the id sequences stay strictly increasing.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// EnsureCounters creates the counter row if it does not exist yet, with both
// sequences starting at 1. Safe to call at every startup.
func (s *GormStore) EnsureCounters(ctx context.Context) error {
	counter := models.CounterModel{ID: 1, NextPlanID: 1, NextPaymentID: 1}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter).Error
}

// Atomically runs fn in a read-write database transaction.
func (s *GormStore) Atomically(ctx context.Context, fn func(tx billing.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// View runs fn in a transaction that takes no row locks. Writes made through
// a View transaction are not prevented, just never expected; read consistency
// is what matters here.
func (s *GormStore) View(ctx context.Context, fn func(tx billing.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx, readOnly: true})
	})
}

type gormTx struct {
	db       *gorm.DB
	readOnly bool
}

func (t *gormTx) Plans() billing.PlanRepository                 { return &gormPlanRepo{db: t.db} }
func (t *gormTx) Subscriptions() billing.SubscriptionRepository { return &gormSubscriptionRepo{db: t.db} }
func (t *gormTx) Payments() billing.PaymentRepository           { return &gormPaymentRepo{db: t.db} }
func (t *gormTx) Access() billing.AccessRepository              { return &gormAccessRepo{db: t.db} }
func (t *gormTx) Counters() billing.CounterRepository {
	return &gormCounterRepo{db: t.db, readOnly: t.readOnly}
}

type gormPlanRepo struct {
	db *gorm.DB
}

func (r *gormPlanRepo) FindByID(ctx context.Context, id int64) (*billing.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *gormPlanRepo) Save(ctx context.Context, plan *billing.Plan) error {
	return r.db.WithContext(ctx).Save(models.PlanModelFromDomain(plan)).Error
}

type gormSubscriptionRepo struct {
	db *gorm.DB
}

func (r *gormSubscriptionRepo) FindBySubscriber(ctx context.Context, subscriber billing.AccountID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		First(&model, "subscriber = ?", subscriber.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *gormSubscriptionRepo) Save(ctx context.Context, sub *billing.Subscription) error {
	return r.db.WithContext(ctx).Save(models.SubscriptionModelFromDomain(sub)).Error
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func (r *gormPaymentRepo) Append(ctx context.Context, record *billing.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(models.PaymentRecordModelFromDomain(record)).Error
}

func (r *gormPaymentRepo) FindByID(ctx context.Context, id int64) (*billing.PaymentRecord, error) {
	var model models.PaymentRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

type gormAccessRepo struct {
	db *gorm.DB
}

func (r *gormAccessRepo) Find(ctx context.Context, subscriber billing.AccountID, service string) (*billing.AccessEntry, error) {
	var model models.AccessEntryModel
	if err := r.db.WithContext(ctx).
		First(&model, "subscriber = ? AND service = ?", subscriber.String(), service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *gormAccessRepo) Save(ctx context.Context, entry *billing.AccessEntry) error {
	model := models.AccessEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber"}, {Name: "service"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

type gormCounterRepo struct {
	db       *gorm.DB
	readOnly bool
}

// load fetches the counter row, locking it for update in read-write
// transactions. SQLite (used in tests) has no FOR UPDATE; its transactions
// serialize writers anyway.
func (r *gormCounterRepo) load(ctx context.Context) (*models.CounterModel, error) {
	var counter models.CounterModel
	q := r.db.WithContext(ctx)
	if !r.readOnly && r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&counter, "id = ?", 1).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *gormCounterRepo) NextPlanID(ctx context.Context) (int64, error) {
	counter, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	id := counter.NextPlanID
	err = r.db.WithContext(ctx).Model(counter).
		Update("next_plan_id", gorm.Expr("next_plan_id + 1")).Error
	return id, err
}

func (r *gormCounterRepo) NextPaymentID(ctx context.Context) (int64, error) {
	counter, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	id := counter.NextPaymentID
	err = r.db.WithContext(ctx).Model(counter).
		Update("next_payment_id", gorm.Expr("next_payment_id + 1")).Error
	return id, err
}

func (r *gormCounterRepo) Stats(ctx context.Context) (billing.RevenueStats, error) {
	counter, err := r.load(ctx)
	if err != nil {
		return billing.RevenueStats{}, err
	}
	return billing.RevenueStats{
		TotalRevenue:      counter.TotalRevenue,
		ActiveSubscribers: counter.ActiveSubscribers,
	}, nil
}

func (r *gormCounterRepo) AddRevenue(ctx context.Context, amount int64) error {
	return r.db.WithContext(ctx).Model(&models.CounterModel{ID: 1}).
		Update("total_revenue", gorm.Expr("total_revenue + ?", amount)).Error
}

func (r *gormCounterRepo) AddActiveSubscribers(ctx context.Context, n int64) error {
	return r.db.WithContext(ctx).Model(&models.CounterModel{ID: 1}).
		Update("active_subscribers", gorm.Expr("active_subscribers + ?", n)).Error
}
