package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment is one rent checkout attempt backed by a provider payment intent.
type Payment struct {
	ID               int64     `json:"id" db:"id"`
	LeaseID          int64     `json:"lease_id" db:"lease_id"`
	TenantID         uuid.UUID `json:"tenant_id" db:"tenant_id"`
	LandlordID       uuid.UUID `json:"landlord_id" db:"landlord_id"`
	Amount           float64   `json:"amount" db:"amount"`
	Currency         string    `json:"currency" db:"currency"`
	Status           string    `json:"status" db:"status"`
	ProviderIntentID string    `json:"provider_intent_id" db:"provider_intent_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// CheckoutSession is returned to the client to confirm the payment in the browser.
type CheckoutSession struct {
	Payment      *Payment `json:"payment"`
	ClientSecret string   `json:"client_secret"`
}
