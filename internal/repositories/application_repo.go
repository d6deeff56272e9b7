package repositories

import (
	"context"
	"time"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.RentalApplication) error
	GetByID(ctx context.Context, id int64) (*models.RentalApplication, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RentalApplication, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.RentalApplication, error)
	Delete(ctx context.Context, id int64) error
	ListApprovedWithoutLease(ctx context.Context, appliedBefore time.Time) ([]int64, error)
	RevertApprovalWithoutLease(ctx context.Context, id int64) error
}

const applicationColumns = `a.id, a.property_id, a.user_id, a.status, a.applied_date,
		a.first_name, a.last_name, a.email, a.phone, a.date_of_birth, a.ssn,
		a.current_street, a.current_city, a.current_state, a.current_zip,
		a.current_landlord_name, a.current_landlord_phone, a.current_monthly_rent, a.move_out_reason,
		a.employer_name, a.job_title, a.employment_length, a.monthly_income,
		a.emergency_contact_name, a.emergency_contact_phone, a.emergency_contact_relationship,
		a.pets, a.vehicles, a.additional_notes`

type applicationRepo struct {
	db DB
}

func NewApplicationRepository(db DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row scanner) (*models.RentalApplication, error) {
	a := &models.RentalApplication{}
	err := row.Scan(&a.ID, &a.PropertyID, &a.UserID, &a.Status, &a.AppliedDate,
		&a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.DateOfBirth, &a.SSN,
		&a.CurrentStreet, &a.CurrentCity, &a.CurrentState, &a.CurrentZip,
		&a.CurrentLandlordName, &a.CurrentLandlordPhone, &a.CurrentMonthlyRent, &a.MoveOutReason,
		&a.EmployerName, &a.JobTitle, &a.EmploymentLength, &a.MonthlyIncome,
		&a.EmergencyContactName, &a.EmergencyContactPhone, &a.EmergencyContactRelationship,
		&a.Pets, &a.Vehicles, &a.AdditionalNotes)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applicationRepo) Create(ctx context.Context, app *models.RentalApplication) error {
	query := `
		INSERT INTO rental_applications (property_id, user_id, status, applied_date,
			first_name, last_name, email, phone, date_of_birth, ssn,
			current_street, current_city, current_state, current_zip,
			current_landlord_name, current_landlord_phone, current_monthly_rent, move_out_reason,
			employer_name, job_title, employment_length, monthly_income,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
			pets, vehicles, additional_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, app.PropertyID, app.UserID, app.Status, app.AppliedDate,
		app.FirstName, app.LastName, app.Email, app.Phone, app.DateOfBirth, app.SSN,
		app.CurrentStreet, app.CurrentCity, app.CurrentState, app.CurrentZip,
		app.CurrentLandlordName, app.CurrentLandlordPhone, app.CurrentMonthlyRent, app.MoveOutReason,
		app.EmployerName, app.JobTitle, app.EmploymentLength, app.MonthlyIncome,
		app.EmergencyContactName, app.EmergencyContactPhone, app.EmergencyContactRelationship,
		app.Pets, app.Vehicles, app.AdditionalNotes).Scan(&app.ID)
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*models.RentalApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM rental_applications a WHERE a.id = $1`
	return scanApplication(r.db.QueryRow(ctx, query, id))
}

func (r *applicationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RentalApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM rental_applications a
		WHERE a.user_id = $1
		ORDER BY a.applied_date DESC
	`
	return r.list(ctx, query, userID)
}

func (r *applicationRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.RentalApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM rental_applications a
		JOIN property p ON p.id = a.property_id
		WHERE p.landlord_id = $1
		ORDER BY a.applied_date DESC
	`
	return r.list(ctx, query, landlordID)
}

// Delete removes a pending application. An application that is missing or
// already decided yields ErrApplicationNotPending.
func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM rental_applications WHERE id = $1 AND status = 'pending'`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicationNotPending
	}
	return nil
}

// ListApprovedWithoutLease finds approved applications that never got their lease row.
func (r *applicationRepo) ListApprovedWithoutLease(ctx context.Context, appliedBefore time.Time) ([]int64, error) {
	query := `
		SELECT a.id
		FROM rental_applications a
		LEFT JOIN lease l ON l.application_id = a.id
		WHERE a.status = 'approved' AND l.id IS NULL AND a.applied_date < $1
		ORDER BY a.id
	`
	rows, err := r.db.Query(ctx, query, appliedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RevertApprovalWithoutLease puts an orphaned approval back to pending. It is
// a no-op error if a lease appeared in the meantime.
func (r *applicationRepo) RevertApprovalWithoutLease(ctx context.Context, id int64) error {
	query := `
		UPDATE rental_applications
		SET status = 'pending'
		WHERE id = $1 AND status = 'approved'
			AND NOT EXISTS (SELECT 1 FROM lease WHERE application_id = $1)
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *applicationRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.RentalApplication, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []*models.RentalApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
