package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the single identity row shared by landlords and renters. Whether a
// user acts as an owner or a tenant depends only on which properties,
// applications and leases reference them.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     *string   `json:"phone" db:"phone"`
	Bio       *string   `json:"bio" db:"bio"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
