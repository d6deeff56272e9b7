package repositories

import (
	"context"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, first_name, last_name, phone, bio, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Phone, &user.Bio, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Upsert records the identity the auth provider vouched for. Profile fields
// already set locally are kept.
func (r *userRepo) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING first_name, last_name, phone, bio, avatar_url, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, user.ID, user.Email, user.FirstName, user.LastName).
		Scan(&user.FirstName, &user.LastName, &user.Phone, &user.Bio, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, bio = $4, avatar_url = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	return r.db.QueryRow(ctx, query, user.FirstName, user.LastName, user.Phone, user.Bio, user.AvatarURL, user.ID).
		Scan(&user.UpdatedAt)
}
