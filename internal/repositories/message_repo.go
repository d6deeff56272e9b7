package repositories

import (
	"context"

	"hearthub/internal/models"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Message, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, id int64) error
}

type messageRepo struct {
	db DB
}

func NewMessageRepository(db DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, property_id, body, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, msg.SenderID, msg.RecipientID, msg.PropertyID, msg.Body).
		Scan(&msg.ID, &msg.CreatedAt)
}

// ListForUser returns both directions of the user's conversations, newest first.
func (r *messageRepo) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, property_id, body, read_at, created_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.PropertyID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepo) MarkRead(ctx context.Context, recipientID uuid.UUID, id int64) error {
	query := `UPDATE messages SET read_at = NOW() WHERE id = $1 AND recipient_id = $2 AND read_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
