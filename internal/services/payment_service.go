package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"hearthub/internal/metrics"
	"hearthub/internal/models"
	"hearthub/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
)

type PaymentService interface {
	Checkout(ctx context.Context, tenantID uuid.UUID, leaseID int64) (*models.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListMine(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	leaseRepo   repositories.LeaseRepository
	provider    PaymentProvider
	currency    string
	log         logrus.FieldLogger
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, leaseRepo repositories.LeaseRepository, provider PaymentProvider, currency string, log logrus.FieldLogger) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		leaseRepo:   leaseRepo,
		provider:    provider,
		currency:    currency,
		log:         log.WithField("service", "payment"),
	}
}

// Checkout opens a payment intent for one month of the lease's rent.
func (s *paymentService) Checkout(ctx context.Context, tenantID uuid.UUID, leaseID int64) (*models.CheckoutSession, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, notFound("lease", err)
	}
	if lease.TenantID != tenantID {
		return nil, fmt.Errorf("only the tenant can pay lease %d: %w", leaseID, ErrForbidden)
	}
	if lease.Status != models.LeaseStatusCurrent {
		return nil, fmt.Errorf("lease %d is %s: %w", leaseID, lease.Status, ErrConflict)
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, &PaymentIntentRequest{
		AmountMinor: ToMinorUnits(lease.MonthlyRent),
		Currency:    s.currency,
		Metadata: map[string]string{
			"lease_id":  strconv.FormatInt(leaseID, 10),
			"tenant_id": tenantID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	payment := &models.Payment{
		LeaseID:          leaseID,
		TenantID:         tenantID,
		LandlordID:       lease.LandlordID,
		Amount:           lease.MonthlyRent,
		Currency:         s.currency,
		Status:           models.PaymentStatusPending,
		ProviderIntentID: intent.ID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"lease_id":  leaseID,
		"intent_id": intent.ID,
	}).Info("rent checkout created")

	return &models.CheckoutSession{Payment: payment, ClientSecret: intent.ClientSecret}, nil
}

// HandleWebhook applies a signed provider event to the matching payment.
// Events for unknown intents and unrelated event types are acknowledged and ignored.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	var status string
	switch event.Type {
	case eventPaymentSucceeded:
		status = models.PaymentStatusSucceeded
	case eventPaymentFailed:
		status = models.PaymentStatusFailed
	default:
		s.log.WithField("event_type", event.Type).Debug("ignoring webhook event")
		return nil
	}

	intentID := event.Data.Object.ID
	if err := s.paymentRepo.UpdateStatusByIntentID(ctx, intentID, status); err != nil {
		if errors.Is(err, repositories.ErrNoRowsAffected) {
			s.log.WithField("intent_id", intentID).Warn("webhook ignored, payment intent unknown or already succeeded")
			return nil
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"intent_id": intentID,
		"status":    status,
	}).Info("payment status updated")
	metrics.RecordPaymentEvent(status)
	return nil
}

func (s *paymentService) ListMine(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByTenant(ctx, tenantID)
}

// ToMinorUnits converts a currency amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
