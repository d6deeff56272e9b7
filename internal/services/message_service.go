package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"hearthub/internal/caching"
	"hearthub/internal/models"
	"hearthub/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	maxMessageLength  = 5000
	messagesPerWindow = 30
	messageRateWindow = time.Minute
)

var ErrRateLimited = errors.New("too many messages, slow down")

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	PropertyID  *int64    `json:"property_id"`
	Body        string    `json:"body"`
}

type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, req *SendMessageRequest) (*models.Message, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Message, error)
	MarkRead(ctx context.Context, userID uuid.UUID, id int64) error
}

type messageService struct {
	messageRepo  repositories.MessageRepository
	cacheService caching.CacheService
	log          logrus.FieldLogger
}

func NewMessageService(messageRepo repositories.MessageRepository, cacheService caching.CacheService, log logrus.FieldLogger) MessageService {
	return &messageService{
		messageRepo:  messageRepo,
		cacheService: cacheService,
		log:          log.WithField("service", "message"),
	}
}

func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, req *SendMessageRequest) (*models.Message, error) {
	if req == nil {
		return nil, validationError("request body is required")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, validationError("body is required")
	}
	if len(body) > maxMessageLength {
		return nil, validationError("body exceeds %d characters", maxMessageLength)
	}
	if req.RecipientID == uuid.Nil {
		return nil, validationError("recipient_id is required")
	}
	if req.RecipientID == senderID {
		return nil, validationError("cannot message yourself")
	}

	limited, err := s.cacheService.IsRateLimited(ctx, "messages:"+senderID.String(), messagesPerWindow, messageRateWindow)
	if err != nil {
		// fail open when redis is unavailable
		s.log.WithError(err).Warn("message rate limit check failed")
	} else if limited {
		return nil, ErrRateLimited
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		PropertyID:  req.PropertyID,
		Body:        body,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	return s.messageRepo.ListForUser(ctx, userID, limit, offset)
}

// MarkRead only succeeds for the recipient of an unread message.
func (s *messageService) MarkRead(ctx context.Context, userID uuid.UUID, id int64) error {
	return notFound("message", s.messageRepo.MarkRead(ctx, userID, id))
}
