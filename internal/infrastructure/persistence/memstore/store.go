// Package memstore provides an in-memory implementation of the billing store
// with full transactional rollback. It backs deterministic service tests and
// the "memory" database driver for local development.
package memstore

import (
	"context"
	"sync"

	"github.com/subhub/backend/internal/domain/billing"
)

type accessKey struct {
	subscriber billing.AccountID
	service    string
}

type counters struct {
	nextPlanID        int64
	nextPaymentID     int64
	totalRevenue      int64
	activeSubscribers int64
}

type state struct {
	plans         map[int64]billing.Plan
	subscriptions map[billing.AccountID]billing.Subscription
	payments      map[int64]billing.PaymentRecord
	access        map[accessKey]billing.AccessEntry
	counters      counters
}

func newState() *state {
	return &state{
		plans:         make(map[int64]billing.Plan),
		subscriptions: make(map[billing.AccountID]billing.Subscription),
		payments:      make(map[int64]billing.PaymentRecord),
		access:        make(map[accessKey]billing.AccessEntry),
		counters:      counters{nextPlanID: 1, nextPaymentID: 1},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.subscriptions {
		c.subscriptions[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.access {
		c.access[k] = v
	}
	c.counters = s.counters
	return c
}

// Store is an in-memory billing.Store. Transactions work on a copy of the
// state and swap it in on success, so a failed callback leaves no effect.
type Store struct {
	mu    sync.Mutex
	state *state
}

// New creates an empty store with both id sequences at 1.
func New() *Store {
	return &Store{state: newState()}
}

// Atomically runs fn against a working copy of the state and commits the copy
// only if fn returns nil.
func (s *Store) Atomically(_ context.Context, fn func(tx billing.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&memTx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// View runs fn against a copy of the state; any writes are discarded.
func (s *Store) View(_ context.Context, fn func(tx billing.Tx) error) error {
	s.mu.Lock()
	work := s.state.clone()
	s.mu.Unlock()
	return fn(&memTx{state: work})
}

type memTx struct {
	state *state
}

func (t *memTx) Plans() billing.PlanRepository                 { return (*planRepo)(t) }
func (t *memTx) Subscriptions() billing.SubscriptionRepository { return (*subscriptionRepo)(t) }
func (t *memTx) Payments() billing.PaymentRepository           { return (*paymentRepo)(t) }
func (t *memTx) Access() billing.AccessRepository              { return (*accessRepo)(t) }
func (t *memTx) Counters() billing.CounterRepository           { return (*counterRepo)(t) }

type planRepo memTx

func (r *planRepo) FindByID(_ context.Context, id int64) (*billing.Plan, error) {
	plan, ok := r.state.plans[id]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (r *planRepo) Save(_ context.Context, plan *billing.Plan) error {
	r.state.plans[plan.ID] = *plan
	return nil
}

type subscriptionRepo memTx

func (r *subscriptionRepo) FindBySubscriber(_ context.Context, subscriber billing.AccountID) (*billing.Subscription, error) {
	sub, ok := r.state.subscriptions[subscriber]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *subscriptionRepo) Save(_ context.Context, sub *billing.Subscription) error {
	r.state.subscriptions[sub.Subscriber] = *sub
	return nil
}

type paymentRepo memTx

func (r *paymentRepo) Append(_ context.Context, record *billing.PaymentRecord) error {
	r.state.payments[record.ID] = *record
	return nil
}

func (r *paymentRepo) FindByID(_ context.Context, id int64) (*billing.PaymentRecord, error) {
	record, ok := r.state.payments[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

type accessRepo memTx

func (r *accessRepo) Find(_ context.Context, subscriber billing.AccountID, service string) (*billing.AccessEntry, error) {
	entry, ok := r.state.access[accessKey{subscriber, service}]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *accessRepo) Save(_ context.Context, entry *billing.AccessEntry) error {
	r.state.access[accessKey{entry.Subscriber, entry.Service}] = *entry
	return nil
}

type counterRepo memTx

func (r *counterRepo) NextPlanID(_ context.Context) (int64, error) {
	id := r.state.counters.nextPlanID
	r.state.counters.nextPlanID++
	return id, nil
}

func (r *counterRepo) NextPaymentID(_ context.Context) (int64, error) {
	id := r.state.counters.nextPaymentID
	r.state.counters.nextPaymentID++
	return id, nil
}

func (r *counterRepo) Stats(_ context.Context) (billing.RevenueStats, error) {
	return billing.RevenueStats{
		TotalRevenue:      r.state.counters.totalRevenue,
		ActiveSubscribers: r.state.counters.activeSubscribers,
	}, nil
}

func (r *counterRepo) AddRevenue(_ context.Context, amount int64) error {
	r.state.counters.totalRevenue += amount
	return nil
}

func (r *counterRepo) AddActiveSubscribers(_ context.Context, n int64) error {
	r.state.counters.activeSubscribers += n
	return nil
}
