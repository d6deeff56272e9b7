package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"hearthub/internal/common"
	"hearthub/internal/models"
	"hearthub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const maxImageSize = 10 << 20

// PropertyHandlers handles HTTP requests for property listings
type PropertyHandlers struct {
	propertyService services.PropertyService
	log             logrus.FieldLogger
}

func NewPropertyHandlers(propertyService services.PropertyService, log logrus.FieldLogger) *PropertyHandlers {
	return &PropertyHandlers{
		propertyService: propertyService,
		log:             log.WithField("handler", "property"),
	}
}

type propertyRequest struct {
	Title           string   `json:"title"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	ZipCode         string   `json:"zip_code"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       float64  `json:"bathrooms"`
	SquareFeet      *int     `json:"square_feet"`
	MonthlyRent     float64  `json:"monthly_rent"`
	SecurityDeposit *float64 `json:"security_deposit"`
	Description     *string  `json:"description"`
	Status          string   `json:"status"`
}

func (r *propertyRequest) toModel() *models.Property {
	return &models.Property{
		Title:           r.Title,
		Address:         r.Address,
		City:            r.City,
		State:           r.State,
		ZipCode:         r.ZipCode,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		SquareFeet:      r.SquareFeet,
		MonthlyRent:     r.MonthlyRent,
		SecurityDeposit: r.SecurityDeposit,
		Description:     r.Description,
		Status:          r.Status,
	}
}

// CreateProperty handles POST /properties
func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}

	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	property := req.toModel()
	if err := h.propertyService.Create(c.Request().Context(), landlordID, property); err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusCreated, property)
}

// GetProperty handles GET /properties/:id
func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	id, ok := propertyIDParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidPropertyID)
	}

	property, err := h.propertyService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusOK, property)
}

// UpdateProperty handles PUT /properties/:id
func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := propertyIDParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidPropertyID)
	}

	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	property := req.toModel()
	property.ID = id
	if err := h.propertyService.Update(c.Request().Context(), landlordID, property); err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusOK, property)
}

// DeleteProperty handles DELETE /properties/:id
func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := propertyIDParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidPropertyID)
	}

	if err := h.propertyService.Delete(c.Request().Context(), landlordID, id); err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyProperties handles GET /me/properties
func (h *PropertyHandlers) ListMyProperties(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	limit, offset := paging(c)

	properties, err := h.propertyService.ListByLandlord(c.Request().Context(), landlordID, limit, offset)
	if err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"properties": properties,
		"limit":      limit,
		"offset":     offset,
	})
}

// ListAvailableProperties handles GET /properties
func (h *PropertyHandlers) ListAvailableProperties(c echo.Context) error {
	limit, offset := paging(c)

	properties, err := h.propertyService.ListAvailable(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"properties": properties,
		"limit":      limit,
		"offset":     offset,
	})
}

// SearchProperties handles GET /properties/search
func (h *PropertyHandlers) SearchProperties(c echo.Context) error {
	filter, field, err := parseSearchFilter(c)
	if err != nil {
		return common.SendValidationError(c, field, "must be a number")
	}

	properties, err := h.propertyService.Search(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"properties": properties,
		"query":      filter.Query,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	})
}

// UploadPropertyImage handles POST /properties/:id/images
func (h *PropertyHandlers) UploadPropertyImage(c echo.Context) error {
	landlordID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := propertyIDParam(c, "id")
	if !ok {
		return common.SendClientError(c, invalidPropertyID)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "Image file is required")
	}
	if file.Size > maxImageSize {
		return common.SendValidationError(c, "image", "Image must be 10MB or smaller")
	}

	src, err := file.Open()
	if err != nil {
		return common.SendClientError(c, "Could not read uploaded file")
	}
	defer src.Close()

	property, err := h.propertyService.UploadImage(c.Request().Context(), landlordID, id, file.Filename,
		file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		return respondError(c, h.log, "Property", err)
	}
	return c.JSON(http.StatusCreated, property)
}

func parseSearchFilter(c echo.Context) (*models.PropertySearchFilter, string, error) {
	filter := &models.PropertySearchFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
		City:  strings.TrimSpace(c.QueryParam("city")),
	}

	for _, field := range []string{"min_rent", "max_rent"} {
		raw := c.QueryParam(field)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, field, err
		}
		if field == "min_rent" {
			filter.MinRent = &v
		} else {
			filter.MaxRent = &v
		}
	}
	if raw := c.QueryParam("bedrooms"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, "bedrooms", err
		}
		filter.Bedrooms = &v
	}

	filter.Limit, filter.Offset = paging(c)
	return filter, "", nil
}
