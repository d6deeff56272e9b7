package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"hearthub/internal/common"
	"hearthub/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// respondError maps service and store errors onto the JSON error envelope.
func respondError(c echo.Context, log logrus.FieldLogger, resource string, err error) error {
	var pgErr *pgconn.PgError
	var storeErr *common.StoreError

	switch {
	case errors.Is(err, services.ErrValidation):
		return common.SendClientError(c, strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": "))
	case errors.Is(err, services.ErrForbidden):
		return common.SendForbiddenError(c, "You do not have permission to perform this action")
	case errors.Is(err, services.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrConflict):
		return common.SendConflictError(c, err.Error())
	case errors.Is(err, services.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", err.Error(), nil))
	case errors.As(err, &pgErr), errors.As(err, &storeErr):
		if common.StoreErrorStatus(err) >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("store error")
		}
		return common.SendStoreError(c, err)
	default:
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return common.SendServerError(c, "Internal server error")
	}
}

// caller returns the authenticated user placed in the request context by the JWT middleware.
func caller(c echo.Context) (uuid.UUID, string, error) {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return userID, common.GetUserEmailFromContext(ctx), nil
}

const invalidPropertyID = "Invalid property ID"

// propertyIDParam validates the :id path segment of property routes.
func propertyIDParam(c echo.Context, name string) (int64, bool) {
	v := common.ValidatePropertyID(c.Param(name))
	if !v.IsValid {
		return 0, false
	}
	return *v.PropertyID, true
}

// idParam parses a strictly numeric path segment.
func idParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func paging(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return common.ValidatePaginationParams(limit, offset)
}
