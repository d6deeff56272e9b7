package repositories

import (
	"context"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	UpdateStatusByIntentID(ctx context.Context, intentID, status string) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error)
}

const paymentColumns = `id, lease_id, tenant_id, landlord_id, amount, currency, status, provider_intent_id, created_at, updated_at`

type paymentRepo struct {
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func scanPayment(row scanner) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.LeaseID, &p.TenantID, &p.LandlordID, &p.Amount, &p.Currency, &p.Status,
		&p.ProviderIntentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (lease_id, tenant_id, landlord_id, amount, currency, status, provider_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, payment.LeaseID, payment.TenantID, payment.LandlordID, payment.Amount,
		payment.Currency, payment.Status, payment.ProviderIntentID).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepo) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_intent_id = $1`
	return scanPayment(r.db.QueryRow(ctx, query, intentID))
}

// UpdateStatusByIntentID never moves a succeeded payment. ErrNoRowsAffected
// means the intent is unknown or already settled.
func (r *paymentRepo) UpdateStatusByIntentID(ctx context.Context, intentID, status string) error {
	query := `UPDATE payments SET status = $1, updated_at = NOW() WHERE provider_intent_id = $2 AND status <> 'succeeded'`
	tag, err := r.db.Exec(ctx, query, status, intentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *paymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
