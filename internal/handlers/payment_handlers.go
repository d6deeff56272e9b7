package handlers

import (
	"errors"
	"io"
	"net/http"

	"hearthub/internal/common"
	"hearthub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 1 << 20
)

// PaymentHandlers handles rent checkout and the provider webhook
type PaymentHandlers struct {
	paymentService services.PaymentService
	log            logrus.FieldLogger
}

func NewPaymentHandlers(paymentService services.PaymentService, log logrus.FieldLogger) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
		log:            log.WithField("handler", "payment"),
	}
}

// Checkout handles POST /leases/:id/checkout
func (h *PaymentHandlers) Checkout(c echo.Context) error {
	tenantID, _, err := caller(c)
	if err != nil {
		return err
	}
	leaseID, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, "Invalid lease ID")
	}

	session, err := h.paymentService.Checkout(c.Request().Context(), tenantID, leaseID)
	if err != nil {
		return respondError(c, h.log, "Lease", err)
	}
	return c.JSON(http.StatusCreated, session)
}

// ListMyPayments handles GET /me/payments
func (h *PaymentHandlers) ListMyPayments(c echo.Context) error {
	tenantID, _, err := caller(c)
	if err != nil {
		return err
	}

	payments, err := h.paymentService.ListMine(c.Request().Context(), tenantID)
	if err != nil {
		return respondError(c, h.log, "Payment", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"payments": payments})
}

// PaymentWebhook handles POST /webhooks/payments
func (h *PaymentHandlers) PaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	signature := c.Request().Header.Get(signatureHeader)
	if signature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing webhook signature")
	}

	if err := h.paymentService.HandleWebhook(c.Request().Context(), body, signature); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			h.log.WithError(err).Warn("rejected webhook")
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid webhook signature")
		}
		return respondError(c, h.log, "Payment", err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
