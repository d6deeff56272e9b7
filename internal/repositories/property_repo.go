package repositories

import (
	"context"
	"fmt"
	"strings"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id int64) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, landlordID uuid.UUID, id int64) error
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error)
	ListAvailable(ctx context.Context, limit, offset int) ([]*models.Property, error)
	Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error)
	AddImage(ctx context.Context, landlordID uuid.UUID, id int64, objectKey string) error
}

const propertyColumns = `id, landlord_id, title, address, city, state, zip_code, bedrooms, bathrooms, square_feet,
		monthly_rent, security_deposit, description, status, image_keys, created_at, updated_at`

type propertyRepo struct {
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	return &propertyRepo{db: db}
}

func scanProperty(row scanner) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(&p.ID, &p.LandlordID, &p.Title, &p.Address, &p.City, &p.State, &p.ZipCode, &p.Bedrooms,
		&p.Bathrooms, &p.SquareFeet, &p.MonthlyRent, &p.SecurityDeposit, &p.Description, &p.Status,
		&p.ImageKeys, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Availability = models.ParseAvailability(p.Status)
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO property (landlord_id, title, address, city, state, zip_code, bedrooms, bathrooms, square_feet,
			monthly_rent, security_deposit, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, property.LandlordID, property.Title, property.Address, property.City,
		property.State, property.ZipCode, property.Bedrooms, property.Bathrooms, property.SquareFeet,
		property.MonthlyRent, property.SecurityDeposit, property.Description, property.Status).
		Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
	if err != nil {
		return err
	}
	property.Availability = models.ParseAvailability(property.Status)
	return nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM property WHERE id = $1`
	return scanProperty(r.db.QueryRow(ctx, query, id))
}

func (r *propertyRepo) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE property
		SET title = $1, address = $2, city = $3, state = $4, zip_code = $5, bedrooms = $6, bathrooms = $7,
			square_feet = $8, monthly_rent = $9, security_deposit = $10, description = $11, status = $12, updated_at = NOW()
		WHERE id = $13 AND landlord_id = $14
	`
	tag, err := r.db.Exec(ctx, query, property.Title, property.Address, property.City, property.State,
		property.ZipCode, property.Bedrooms, property.Bathrooms, property.SquareFeet, property.MonthlyRent,
		property.SecurityDeposit, property.Description, property.Status, property.ID, property.LandlordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	property.Availability = models.ParseAvailability(property.Status)
	return nil
}

func (r *propertyRepo) Delete(ctx context.Context, landlordID uuid.UUID, id int64) error {
	query := `DELETE FROM property WHERE id = $1 AND landlord_id = $2`
	tag, err := r.db.Exec(ctx, query, id, landlordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *propertyRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM property
		WHERE landlord_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, landlordID, limit, offset)
}

func (r *propertyRepo) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + `
		FROM property
		WHERE status = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, models.AvailableStatuses(), limit, offset)
}

// Search is the database fallback used when no search index is configured.
func (r *propertyRepo) Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error) {
	conditions := []string{"status = ANY($1)"}
	args := []interface{}{models.AvailableStatuses()}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR address ILIKE $%d OR city ILIKE $%d OR description ILIKE $%d)", n, n, n, n))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.MinRent != nil {
		args = append(args, *filter.MinRent)
		conditions = append(conditions, fmt.Sprintf("monthly_rent >= $%d", len(args)))
	}
	if filter.MaxRent != nil {
		args = append(args, *filter.MaxRent)
		conditions = append(conditions, fmt.Sprintf("monthly_rent <= $%d", len(args)))
	}
	if filter.Bedrooms != nil {
		args = append(args, *filter.Bedrooms)
		conditions = append(conditions, fmt.Sprintf("bedrooms >= $%d", len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s
		FROM property
		WHERE %s
		ORDER BY monthly_rent ASC
		LIMIT $%d OFFSET $%d`, propertyColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	return r.list(ctx, query, args...)
}

func (r *propertyRepo) AddImage(ctx context.Context, landlordID uuid.UUID, id int64, objectKey string) error {
	query := `
		UPDATE property
		SET image_keys = array_append(image_keys, $1), updated_at = NOW()
		WHERE id = $2 AND landlord_id = $3
	`
	tag, err := r.db.Exec(ctx, query, objectKey, id, landlordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *propertyRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []*models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
