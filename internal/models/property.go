package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Availability is the normalized form of the free-text property status.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityOccupied  Availability = "occupied"
	AvailabilityUnknown   Availability = "unknown"
)

// Historical listings use several spellings for the same state.
var availabilitySynonyms = map[string]Availability{
	"available": AvailabilityAvailable,
	"vacant":    AvailabilityAvailable,
	"occupied":  AvailabilityOccupied,
	"rented":    AvailabilityOccupied,
	"leased":    AvailabilityOccupied,
}

// ParseAvailability maps a stored status such as "Vacant" or "available" to an Availability.
func ParseAvailability(status string) Availability {
	if a, ok := availabilitySynonyms[strings.ToLower(strings.TrimSpace(status))]; ok {
		return a
	}
	return AvailabilityUnknown
}

// AvailableStatuses lists every raw status value that means available,
// in the casings found in existing rows.
func AvailableStatuses() []string {
	return []string{"Available", "available", "Vacant", "vacant"}
}

type Property struct {
	ID              int64        `json:"id" db:"id"`
	LandlordID      uuid.UUID    `json:"landlord_id" db:"landlord_id"`
	Title           string       `json:"title" db:"title"`
	Address         string       `json:"address" db:"address"`
	City            string       `json:"city" db:"city"`
	State           string       `json:"state" db:"state"`
	ZipCode         string       `json:"zip_code" db:"zip_code"`
	Bedrooms        int          `json:"bedrooms" db:"bedrooms"`
	Bathrooms       float64      `json:"bathrooms" db:"bathrooms"`
	SquareFeet      *int         `json:"square_feet" db:"square_feet"`
	MonthlyRent     float64      `json:"monthly_rent" db:"monthly_rent"`
	SecurityDeposit *float64     `json:"security_deposit" db:"security_deposit"`
	Description     *string      `json:"description" db:"description"`
	Status          string       `json:"status" db:"status"`
	Availability    Availability `json:"availability" db:"-"`
	ImageKeys       []string     `json:"image_keys" db:"image_keys"`
	ImageURLs       []string     `json:"image_urls,omitempty" db:"-"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// PropertySearchFilter holds search criteria for property listings
type PropertySearchFilter struct {
	Query    string
	City     string
	MinRent  *float64
	MaxRent  *float64
	Bedrooms *int
	Limit    int
	Offset   int
}
