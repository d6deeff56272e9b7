package handlers

import (
	"net/http"

	"hearthub/internal/common"
	"hearthub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LeaseHandlers struct {
	leaseService services.LeaseService
	log          logrus.FieldLogger
}

func NewLeaseHandlers(leaseService services.LeaseService, log logrus.FieldLogger) *LeaseHandlers {
	return &LeaseHandlers{
		leaseService: leaseService,
		log:          log.WithField("handler", "lease"),
	}
}

// ListMyLeases handles GET /me/leases
func (h *LeaseHandlers) ListMyLeases(c echo.Context) error {
	tenantID, _, err := caller(c)
	if err != nil {
		return err
	}

	leases, err := h.leaseService.ListAsTenant(c.Request().Context(), tenantID)
	if err != nil {
		return respondError(c, h.log, "Lease", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"leases": leases})
}

// ListLandlordLeases handles GET /landlord/leases
func (h *LeaseHandlers) ListLandlordLeases(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}

	leases, err := h.leaseService.ListAsLandlord(c.Request().Context(), landlordID)
	if err != nil {
		return respondError(c, h.log, "Lease", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"leases": leases})
}

// GetLease handles GET /leases/:id
func (h *LeaseHandlers) GetLease(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, "Invalid lease ID")
	}

	lease, err := h.leaseService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.log, "Lease", err)
	}
	return c.JSON(http.StatusOK, lease)
}
