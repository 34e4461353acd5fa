// Package billing contains the core entities and invariants of the
// subscription billing domain: subscription plans, per-subscriber
// subscriptions, service access grants, the append-only payment ledger and
// the running revenue aggregates.
//
// All durable state lives behind the Store abstraction and is mutated only
// inside a single atomic transaction per public operation. Caller identity
// and the logical clock are supplied by the application layer; nothing in
// this package reads ambient time or identity.
package billing
