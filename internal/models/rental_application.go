package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ISOTimestampLayout is fixed-width so serialized timestamps compare lexicographically.
const ISOTimestampLayout = "2006-01-02T15:04:05.000Z"

// ApplicationForm is the renter-facing form payload, keyed the way the web form posts it.
type ApplicationForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`

	CurrentStreet        string  `json:"currentStreet"`
	CurrentCity          string  `json:"currentCity"`
	CurrentState         string  `json:"currentState"`
	CurrentZip           string  `json:"currentZip"`
	CurrentLandlordName  string  `json:"currentLandlordName"`
	CurrentLandlordPhone string  `json:"currentLandlordPhone"`
	MonthlyRent          string  `json:"monthlyRent"`
	MoveOutReason        *string `json:"moveOutReason"`

	EmployerName     string `json:"employerName"`
	JobTitle         string `json:"jobTitle"`
	EmploymentLength string `json:"employmentLength"`
	MonthlyIncome    string `json:"monthlyIncome"`

	EmergencyName         string `json:"emergencyName"`
	EmergencyPhone        string `json:"emergencyPhone"`
	EmergencyRelationship string `json:"emergencyRelationship"`

	Pets            *string `json:"pets"`
	Vehicles        *string `json:"vehicles"`
	AdditionalNotes *string `json:"additionalNotes"`
}

type RentalApplication struct {
	ID          int64     `json:"id" db:"id"`
	PropertyID  int64     `json:"property_id" db:"property_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Status      string    `json:"status" db:"status"`
	AppliedDate time.Time `json:"applied_date" db:"applied_date"`

	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	Email       string `json:"email" db:"email"`
	Phone       string `json:"phone" db:"phone"`
	DateOfBirth string `json:"date_of_birth" db:"date_of_birth"`
	SSN         string `json:"-" db:"ssn"` // never serialized

	CurrentStreet        string   `json:"current_street" db:"current_street"`
	CurrentCity          string   `json:"current_city" db:"current_city"`
	CurrentState         string   `json:"current_state" db:"current_state"`
	CurrentZip           string   `json:"current_zip" db:"current_zip"`
	CurrentLandlordName  string   `json:"current_landlord_name" db:"current_landlord_name"`
	CurrentLandlordPhone string   `json:"current_landlord_phone" db:"current_landlord_phone"`
	CurrentMonthlyRent   *float64 `json:"current_monthly_rent" db:"current_monthly_rent"`
	MoveOutReason        *string  `json:"move_out_reason" db:"move_out_reason"`

	EmployerName     string   `json:"employer_name" db:"employer_name"`
	JobTitle         string   `json:"job_title" db:"job_title"`
	EmploymentLength string   `json:"employment_length" db:"employment_length"`
	MonthlyIncome    *float64 `json:"monthly_income" db:"monthly_income"`

	EmergencyContactName         string `json:"emergency_contact_name" db:"emergency_contact_name"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" db:"emergency_contact_phone"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" db:"emergency_contact_relationship"`

	Pets            *string `json:"pets" db:"pets"`
	Vehicles        *string `json:"vehicles" db:"vehicles"`
	AdditionalNotes *string `json:"additional_notes" db:"additional_notes"`
}

// GetStatus lets applications feed the status aggregation helpers.
func (a *RentalApplication) GetStatus() string {
	return a.Status
}

// MarshalJSON renders applied_date in the fixed-width ISO layout.
func (a RentalApplication) MarshalJSON() ([]byte, error) {
	type alias RentalApplication
	return json.Marshal(struct {
		alias
		AppliedDate string `json:"applied_date"`
	}{
		alias:       alias(a),
		AppliedDate: a.AppliedDate.UTC().Format(ISOTimestampLayout),
	})
}
