package handlers

import (
	"net/http"

	"hearthub/internal/common"
	"hearthub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserHandlers struct {
	userService services.UserService
	log         logrus.FieldLogger
}

func NewUserHandlers(userService services.UserService, log logrus.FieldLogger) *UserHandlers {
	return &UserHandlers{
		userService: userService,
		log:         log.WithField("handler", "user"),
	}
}

// GetMe handles GET /me
func (h *UserHandlers) GetMe(c echo.Context) error {
	userID, email, err := caller(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Me(c.Request().Context(), userID, email)
	if err != nil {
		return respondError(c, h.log, "User", err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /me
func (h *UserHandlers) UpdateMe(c echo.Context) error {
	userID, email, err := caller(c)
	if err != nil {
		return err
	}

	var req services.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), userID, email, &req)
	if err != nil {
		return respondError(c, h.log, "User", err)
	}
	return c.JSON(http.StatusOK, user)
}
