// Package models contains the GORM persistence models for the billing
// relations and their domain conversions.
package models

import (
	"time"

	"github.com/subhub/backend/internal/domain/billing"
)

// PlanModel is the persistence model for billing.Plan. Ids come from the
// counter row, not from an auto-increment column.
type PlanModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	Name          string `gorm:"type:varchar(100);not null"`
	PricePerMonth int64  `gorm:"not null"`
	MaxUsers      int    `gorm:"not null"`
	Features      string `gorm:"type:text"`
	Active        bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model to a domain Plan.
func (m *PlanModel) ToDomain() *billing.Plan {
	return &billing.Plan{
		ID:            m.ID,
		Name:          m.Name,
		PricePerMonth: m.PricePerMonth,
		MaxUsers:      m.MaxUsers,
		Features:      m.Features,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
	}
}

// PlanModelFromDomain populates a persistence model from a domain Plan.
func PlanModelFromDomain(p *billing.Plan) *PlanModel {
	return &PlanModel{
		ID:            p.ID,
		Name:          p.Name,
		PricePerMonth: p.PricePerMonth,
		MaxUsers:      p.MaxUsers,
		Features:      p.Features,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}

// SubscriptionModel is the persistence model for billing.Subscription, keyed
// by the subscriber account id.
type SubscriptionModel struct {
	Subscriber   string    `gorm:"primaryKey;type:varchar(100)"`
	PlanID       int64     `gorm:"not null;index"`
	StartDate    time.Time `gorm:"not null"`
	EndDate      time.Time `gorm:"not null;index"`
	Active       bool      `gorm:"not null;default:true"`
	AutoRenew    bool      `gorm:"not null;default:false"`
	TotalPaid    int64     `gorm:"not null"`
	PaymentCount int       `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription.
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	return &billing.Subscription{
		Subscriber:   billing.AccountID(m.Subscriber),
		PlanID:       m.PlanID,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Active:       m.Active,
		AutoRenew:    m.AutoRenew,
		TotalPaid:    m.TotalPaid,
		PaymentCount: m.PaymentCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// SubscriptionModelFromDomain populates a persistence model from a domain
// Subscription.
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		Subscriber:   s.Subscriber.String(),
		PlanID:       s.PlanID,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		Active:       s.Active,
		AutoRenew:    s.AutoRenew,
		TotalPaid:    s.TotalPaid,
		PaymentCount: s.PaymentCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// AccessEntryModel is the persistence model for billing.AccessEntry, keyed by
// (subscriber, service).
type AccessEntryModel struct {
	Subscriber   string    `gorm:"primaryKey;type:varchar(100)"`
	Service      string    `gorm:"primaryKey;type:varchar(50)"`
	HasAccess    bool      `gorm:"not null"`
	GrantedAt    time.Time `gorm:"not null"`
	LastAccessed time.Time
}

// TableName returns the table name for GORM
func (AccessEntryModel) TableName() string {
	return "access_entries"
}

// ToDomain converts the persistence model to a domain AccessEntry.
func (m *AccessEntryModel) ToDomain() *billing.AccessEntry {
	return &billing.AccessEntry{
		Subscriber:   billing.AccountID(m.Subscriber),
		Service:      m.Service,
		HasAccess:    m.HasAccess,
		GrantedAt:    m.GrantedAt,
		LastAccessed: m.LastAccessed,
	}
}

// AccessEntryModelFromDomain populates a persistence model from a domain
// AccessEntry.
func AccessEntryModelFromDomain(e *billing.AccessEntry) *AccessEntryModel {
	return &AccessEntryModel{
		Subscriber:   e.Subscriber.String(),
		Service:      e.Service,
		HasAccess:    e.HasAccess,
		GrantedAt:    e.GrantedAt,
		LastAccessed: e.LastAccessed,
	}
}

// PaymentRecordModel is the persistence model for billing.PaymentRecord.
// Rows are append-only.
type PaymentRecordModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false"`
	Subscriber string    `gorm:"type:varchar(100);not null;index"`
	PlanID     int64     `gorm:"not null"`
	Amount     int64     `gorm:"not null"`
	Date       time.Time `gorm:"not null"`
	Type       string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PaymentRecordModel) TableName() string {
	return "payment_records"
}

// ToDomain converts the persistence model to a domain PaymentRecord.
func (m *PaymentRecordModel) ToDomain() *billing.PaymentRecord {
	return &billing.PaymentRecord{
		ID:         m.ID,
		Subscriber: billing.AccountID(m.Subscriber),
		PlanID:     m.PlanID,
		Amount:     m.Amount,
		Date:       m.Date,
		Type:       billing.PaymentType(m.Type),
	}
}

// PaymentRecordModelFromDomain populates a persistence model from a domain
// PaymentRecord.
func PaymentRecordModelFromDomain(r *billing.PaymentRecord) *PaymentRecordModel {
	return &PaymentRecordModel{
		ID:         r.ID,
		Subscriber: r.Subscriber.String(),
		PlanID:     r.PlanID,
		Amount:     r.Amount,
		Date:       r.Date,
		Type:       string(r.Type),
	}
}

// CounterModel is the single-row table holding the two id sequences and the
// two revenue aggregates. The row always has ID 1.
type CounterModel struct {
	ID                int   `gorm:"primaryKey;autoIncrement:false"`
	NextPlanID        int64 `gorm:"not null;default:1"`
	NextPaymentID     int64 `gorm:"not null;default:1"`
	TotalRevenue      int64 `gorm:"not null;default:0"`
	ActiveSubscribers int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CounterModel) TableName() string {
	return "billing_counters"
}
