package handlers

import (
	"net/http"
	"time"

	"hearthub/internal/common"
	"hearthub/internal/models"
	"hearthub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const invalidApplicationID = "Invalid application ID"

// ApplicationHandlers handles rental application submission and review
type ApplicationHandlers struct {
	applicationService services.ApplicationService
	log                logrus.FieldLogger
	now                func() time.Time
}

func NewApplicationHandlers(applicationService services.ApplicationService, log logrus.FieldLogger) *ApplicationHandlers {
	return &ApplicationHandlers{
		applicationService: applicationService,
		log:                log.WithField("handler", "application"),
		now:                time.Now,
	}
}

// SubmitApplication handles POST /properties/:id/applications
func (h *ApplicationHandlers) SubmitApplication(c echo.Context) error {
	userID, email, err := caller(c)
	if err != nil {
		return err
	}

	var form models.ApplicationForm
	if err := c.Bind(&form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	// the raw path value goes through the property-ID validator in the service
	app, err := h.applicationService.Submit(c.Request().Context(), userID, email, c.Param("id"), &form)
	if err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusCreated, app)
}

// ListMyApplications handles GET /me/applications
func (h *ApplicationHandlers) ListMyApplications(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}

	dashboard, err := h.applicationService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, h.log, "Application", err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// ListIncomingApplications handles GET /landlord/applications
func (h *ApplicationHandlers) ListIncomingApplications(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}

	dashboard, err := h.applicationService.ListIncoming(c.Request().Context(), landlordID)
	if err != nil {
		return respondError(c, h.log, "Application", err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// GetApplication handles GET /applications/:id
func (h *ApplicationHandlers) GetApplication(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidApplicationID)
	}

	view, err := h.applicationService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, h.log, "Application", err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetLeaseDraft handles GET /applications/:id/lease-draft?move_in=YYYY-MM-DD
func (h *ApplicationHandlers) GetLeaseDraft(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidApplicationID)
	}

	moveIn := h.now().UTC().Truncate(24 * time.Hour)
	if raw := c.QueryParam("move_in"); raw != "" {
		parsed, err := common.ParseDate(raw, "move_in")
		if err != nil {
			return common.SendValidationError(c, "move_in", err.Error())
		}
		moveIn = parsed
	}

	draft, err := h.applicationService.LeaseDraft(c.Request().Context(), landlordID, id, moveIn)
	if err != nil {
		return respondError(c, h.log, "Application", err)
	}
	return c.JSON(http.StatusOK, draft)
}

// ApproveApplication handles POST /applications/:id/approve
func (h *ApplicationHandlers) ApproveApplication(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidApplicationID)
	}

	var req models.ApproveApplicationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	lease, err := h.applicationService.Approve(c.Request().Context(), landlordID, id, &req)
	if err != nil {
		return respondError(c, h.log, "Application", err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"lease":   lease,
	})
}

// RejectApplication handles POST /applications/:id/reject
func (h *ApplicationHandlers) RejectApplication(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidApplicationID)
	}

	if err := h.applicationService.Reject(c.Request().Context(), landlordID, id); err != nil {
		return respondError(c, h.log, "Application", err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
