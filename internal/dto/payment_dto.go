package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Price         float64   `json:"price"`
	BillingCycle  string    `json:"billing_cycle"`
	Description   string    `json:"description"`
	IsMostPopular bool      `json:"is_most_popular"`
	Colleges      []string  `json:"colleges"`
}

type OrderSummaryResponse struct {
	PlanName      string  `json:"plan_name"`
	BillingPeriod string  `json:"billing_period"`
	PricePerUnit  string  `json:"price_per_unit"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
}

type CheckoutRequest struct {
	PlanId    uuid.UUID `json:"plan_id" validate:"required"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty"`
}

type CheckoutResponse struct {
	SubscriptionId  uuid.UUID `json:"subscription_id"`
	SnapRedirectUrl string    `json:"snap_redirect_url,omitempty"`
	SnapToken       string    `json:"snap_token,omitempty"`
	// Activated is true for free plans, which skip the gateway entirely.
	Activated bool `json:"activated"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

type SubscriptionStatusResponse struct {
	SubscriptionId            uuid.UUID `json:"subscription_id,omitempty"`
	PlanName                  string    `json:"plan_name"`
	Status                    string    `json:"status"`
	EndsAt                    time.Time `json:"ends_at,omitempty"`
	IsActive                  bool      `json:"is_active"`
	HasActivePaidSubscription bool      `json:"has_active_paid_subscription"`
	AccessibleColleges        []string  `json:"accessible_colleges"`
}
