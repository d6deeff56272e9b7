package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"hearthub/db"
	"hearthub/internal/models"
	"hearthub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties every table.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=hearthub_test sslmode=disable"
		}
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Test database unavailable: %v", err)
	}

	if err := database.ApplySchema(ctx, pool, db.Schema); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}
	truncate(t, pool)

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

func truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE messages, payments, lease, rental_applications, property, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupTestProperty inserts an available listing owned by landlordID.
func SetupTestProperty(t *testing.T, db *TestDB, landlordID uuid.UUID, monthlyRent float64) *models.Property {
	t.Helper()

	property := &models.Property{
		LandlordID:  landlordID,
		Title:       "Sunny two bedroom",
		Address:     "12 Elm St",
		City:        "Portland",
		State:       "OR",
		ZipCode:     "97201",
		Bedrooms:    2,
		Bathrooms:   1.5,
		MonthlyRent: monthlyRent,
		Status:      "Available",
	}
	query := `
		INSERT INTO property (landlord_id, title, address, city, state, zip_code, bedrooms, bathrooms, monthly_rent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query, property.LandlordID, property.Title, property.Address,
		property.City, property.State, property.ZipCode, property.Bedrooms, property.Bathrooms,
		property.MonthlyRent, property.Status).Scan(&property.ID, &property.CreatedAt, &property.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}
	return property
}

// SetupTestApplication inserts an application for propertyID with the given status and applied date.
func SetupTestApplication(t *testing.T, db *TestDB, propertyID int64, userID uuid.UUID, status string, appliedAt time.Time) int64 {
	t.Helper()

	var id int64
	query := `
		INSERT INTO rental_applications (property_id, user_id, status, applied_date, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := db.Pool.QueryRow(context.Background(), query, propertyID, userID, status, appliedAt,
		"Ada", "Lovelace", "ada@example.com").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test application: %v", err)
	}
	return id
}
