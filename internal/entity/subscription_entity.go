package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PaymentStatus string
type BillingCycle string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
	BillingCycleFree    BillingCycle = "free"
)

type Plan struct {
	Id            uuid.UUID
	Name          string
	Slug          string
	Description   string
	Price         float64
	TaxRate       float64
	BillingCycle  BillingCycle
	IsMostPopular bool
	IsActive      bool
	SortOrder     int

	// Colleges whose projects this plan unlocks.
	Colleges []College
}

func (p *Plan) IsPaid() bool {
	return p.BillingCycle != BillingCycleFree
}

type Subscription struct {
	Id                    uuid.UUID
	UserId                uuid.UUID
	PlanId                uuid.UUID
	Status                SubscriptionStatus
	PaymentStatus         PaymentStatus
	StartedAt             time.Time
	EndsAt                time.Time
	MidtransTransactionId *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Populated when loaded with its plan.
	Plan *Plan
}

// EffectivelyActive recomputes liveness from EndsAt. Stored status is not
// authoritative: nothing transitions ACTIVE rows to EXPIRED on a schedule,
// so every read path must compare EndsAt against the clock.
func (s *Subscription) EffectivelyActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && !s.EndsAt.Before(now)
}
