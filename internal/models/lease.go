package models

import (
	"time"

	"github.com/google/uuid"
)

const LeaseStatusCurrent = "current"

// DateLayout is the wire format for calendar dates on leases.
const DateLayout = "2006-01-02"

type Lease struct {
	ID              int64     `json:"id" db:"id"`
	ApplicationID   *int64    `json:"application_id" db:"application_id"`
	TenantID        uuid.UUID `json:"tenant_id" db:"tenant_id"`
	LandlordID      uuid.UUID `json:"landlord_id" db:"landlord_id"`
	PropertyID      int64     `json:"property_id" db:"property_id"`
	MoveInDate      time.Time `json:"move_in_date" db:"move_in_date"`
	LeaseEndDate    time.Time `json:"lease_end_date" db:"lease_end_date"`
	MonthlyRent     float64   `json:"monthly_rent" db:"monthly_rent"`
	SecurityDeposit *float64  `json:"security_deposit" db:"security_deposit"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// LeaseDraft prefills the landlord's approval form.
type LeaseDraft struct {
	ApplicationID   int64     `json:"application_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	PropertyID      int64     `json:"property_id"`
	MoveInDate      string    `json:"move_in_date"`
	LeaseEndDate    string    `json:"lease_end_date"`
	MonthlyRent     float64   `json:"monthly_rent"`
	SecurityDeposit *float64  `json:"security_deposit"`
}

// ApproveApplicationRequest is what a landlord submits to approve an
// application. Tenant and property are taken from the application itself.
type ApproveApplicationRequest struct {
	MoveInDate      string   `json:"move_in_date"`
	LeaseEndDate    string   `json:"lease_end_date"`
	MonthlyRent     *float64 `json:"monthly_rent"`
	SecurityDeposit *float64 `json:"security_deposit"`
}
