package billing

import "context"

// Repositories signal absence by returning (nil, nil); the caller decides
// which domain error an absent row amounts to.

// PlanRepository gives access to the plans relation inside a transaction.
type PlanRepository interface {
	FindByID(ctx context.Context, id int64) (*Plan, error)
	Save(ctx context.Context, plan *Plan) error
}

// SubscriptionRepository gives access to the subscriptions relation, keyed by
// subscriber account id.
type SubscriptionRepository interface {
	FindBySubscriber(ctx context.Context, subscriber AccountID) (*Subscription, error)
	Save(ctx context.Context, sub *Subscription) error
}

// PaymentRepository is the append-only payment ledger. Records are never
// mutated or deleted; the only read is a direct id lookup.
type PaymentRepository interface {
	Append(ctx context.Context, record *PaymentRecord) error
	FindByID(ctx context.Context, id int64) (*PaymentRecord, error)
}

// AccessRepository gives access to the access-entry relation, keyed by
// (subscriber, service). Save overwrites an existing grant.
type AccessRepository interface {
	Find(ctx context.Context, subscriber AccountID, service string) (*AccessEntry, error)
	Save(ctx context.Context, entry *AccessEntry) error
}

// CounterRepository holds the four scalar counters: the two id sequences and
// the two revenue aggregates. NextPlanID and NextPaymentID return the current
// sequence value and advance it.
type CounterRepository interface {
	NextPlanID(ctx context.Context) (int64, error)
	NextPaymentID(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (RevenueStats, error)
	AddRevenue(ctx context.Context, amount int64) error
	AddActiveSubscribers(ctx context.Context, n int64) error
}

// Tx is one transaction over the billing store. All reads observe a
// consistent snapshot; all writes commit together or not at all.
type Tx interface {
	Plans() PlanRepository
	Subscriptions() SubscriptionRepository
	Payments() PaymentRepository
	Access() AccessRepository
	Counters() CounterRepository
}

// Store is the durable, transactional home of the four billing relations and
// the four counters. Each public billing operation runs as exactly one
// Atomically call: if fn returns an error, every write inside it is rolled
// back and the error is surfaced verbatim.
type Store interface {
	// Atomically runs fn in a read-write transaction.
	Atomically(ctx context.Context, fn func(tx Tx) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error
}
