// Package applications holds the pure helpers that shape rental applications
// before they are stored and classify them for display.
package applications

import (
	"strconv"
	"strings"
	"time"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

// now is swapped in tests.
var now = time.Now

// PrepareApplicationData turns a submitted form into the record to persist.
// Status is always pending and the applied date is the current time.
func PrepareApplicationData(form *models.ApplicationForm, propertyID int64, userID uuid.UUID, userEmail string) *models.RentalApplication {
	email := form.Email
	if email == "" {
		email = userEmail
	}

	return &models.RentalApplication{
		PropertyID:  propertyID,
		UserID:      userID,
		Status:      models.ApplicationStatusPending,
		AppliedDate: now().UTC().Truncate(time.Millisecond),

		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       email,
		Phone:       form.Phone,
		DateOfBirth: form.DateOfBirth,
		SSN:         form.SSN,

		CurrentStreet:        form.CurrentStreet,
		CurrentCity:          form.CurrentCity,
		CurrentState:         form.CurrentState,
		CurrentZip:           form.CurrentZip,
		CurrentLandlordName:  form.CurrentLandlordName,
		CurrentLandlordPhone: form.CurrentLandlordPhone,
		CurrentMonthlyRent:   parseAmount(form.MonthlyRent),
		MoveOutReason:        form.MoveOutReason,

		EmployerName:     form.EmployerName,
		JobTitle:         form.JobTitle,
		EmploymentLength: form.EmploymentLength,
		MonthlyIncome:    parseAmount(form.MonthlyIncome),

		EmergencyContactName:         form.EmergencyName,
		EmergencyContactPhone:        form.EmergencyPhone,
		EmergencyContactRelationship: form.EmergencyRelationship,

		Pets:            form.Pets,
		Vehicles:        form.Vehicles,
		AdditionalNotes: form.AdditionalNotes,
	}
}

// parseAmount returns nil for empty input; "0" is a real zero.
func parseAmount(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &v
}

// AnnualIncome is monthly income times twelve, nil when monthly is unknown.
func AnnualIncome(monthly *float64) *float64 {
	if monthly == nil {
		return nil
	}
	annual := *monthly * 12
	return &annual
}
