package repositories

import (
	"context"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

type LeaseRepository interface {
	CreateForApprovedApplication(ctx context.Context, lease *models.Lease) error
	GetByID(ctx context.Context, id int64) (*models.Lease, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Lease, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.Lease, error)
}

const leaseColumns = `id, application_id, tenant_id, landlord_id, property_id, move_in_date, lease_end_date,
		monthly_rent, security_deposit, status, created_at`

type leaseRepo struct {
	db DB
}

func NewLeaseRepository(db DB) LeaseRepository {
	return &leaseRepo{db: db}
}

func scanLease(row scanner) (*models.Lease, error) {
	l := &models.Lease{}
	err := row.Scan(&l.ID, &l.ApplicationID, &l.TenantID, &l.LandlordID, &l.PropertyID, &l.MoveInDate,
		&l.LeaseEndDate, &l.MonthlyRent, &l.SecurityDeposit, &l.Status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateForApprovedApplication marks the source application approved and
// inserts the lease in one transaction. The status update only matches a
// pending application, so two concurrent approvals cannot both create a lease.
func (r *leaseRepo) CreateForApprovedApplication(ctx context.Context, lease *models.Lease) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `UPDATE rental_applications SET status = 'approved' WHERE id = $1 AND status = 'pending'`, *lease.ApplicationID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if tag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return ErrApplicationNotPending
	}

	query := `
		INSERT INTO lease (application_id, tenant_id, landlord_id, property_id, move_in_date, lease_end_date,
			monthly_rent, security_deposit, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query, *lease.ApplicationID, lease.TenantID, lease.LandlordID, lease.PropertyID,
		lease.MoveInDate, lease.LeaseEndDate, lease.MonthlyRent, lease.SecurityDeposit, lease.Status).
		Scan(&lease.ID, &lease.CreatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func (r *leaseRepo) GetByID(ctx context.Context, id int64) (*models.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM lease WHERE id = $1`
	return scanLease(r.db.QueryRow(ctx, query, id))
}

func (r *leaseRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM lease WHERE tenant_id = $1 ORDER BY move_in_date DESC`
	return r.list(ctx, query, tenantID)
}

func (r *leaseRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM lease WHERE landlord_id = $1 ORDER BY move_in_date DESC`
	return r.list(ctx, query, landlordID)
}

func (r *leaseRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leases := []*models.Lease{}
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}
