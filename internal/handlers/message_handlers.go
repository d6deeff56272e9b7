package handlers

import (
	"net/http"

	"hearthub/internal/common"
	"hearthub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type MessageHandlers struct {
	messageService services.MessageService
	log            logrus.FieldLogger
}

func NewMessageHandlers(messageService services.MessageService, log logrus.FieldLogger) *MessageHandlers {
	return &MessageHandlers{
		messageService: messageService,
		log:            log.WithField("handler", "message"),
	}
}

// SendMessage handles POST /messages
func (h *MessageHandlers) SendMessage(c echo.Context) error {
	senderID, _, err := caller(c)
	if err != nil {
		return err
	}

	var req services.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	msg, err := h.messageService.Send(c.Request().Context(), senderID, &req)
	if err != nil {
		return respondError(c, h.log, "Message", err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// ListMessages handles GET /messages
func (h *MessageHandlers) ListMessages(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}
	limit, offset := paging(c)

	messages, err := h.messageService.List(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return respondError(c, h.log, "Message", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"limit":    limit,
		"offset":   offset,
	})
}

// MarkMessageRead handles POST /messages/:id/read
func (h *MessageHandlers) MarkMessageRead(c echo.Context) error {
	userID, _, err := caller(c)
	if err != nil {
		return err
	}
	id, ok := idParam(c, "id")
	if !ok {
		return common.SendClientError(c, "Invalid message ID")
	}

	if err := h.messageService.MarkRead(c.Request().Context(), userID, id); err != nil {
		return respondError(c, h.log, "Message", err)
	}
	return c.NoContent(http.StatusNoContent)
}
