package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          int64      `json:"id" db:"id"`
	SenderID    uuid.UUID  `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	PropertyID  *int64     `json:"property_id" db:"property_id"`
	Body        string     `json:"body" db:"body"`
	ReadAt      *time.Time `json:"read_at" db:"read_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
