package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/landai/chatd/domain"
)

// statusClientClosedRequest mirrors the nginx convention for a request the
// client abandoned; the client never observes it.
const statusClientClosedRequest = 499

// PostMessageRequest is the body for POST /v1/messages and
// POST /v1/messages/assistant.
type PostMessageRequest struct {
	Text string `json:"text"`
}

// PostMessage appends a user message to the current conversation (starting
// one if needed) and returns the assistant reply. Closing the connection
// cancels the in-flight answer; the user message stays.
// POST /v1/messages
func (h *Handler) PostMessage(c echo.Context) error {
	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	message, err := h.service.AddUserMessage(c.Request().Context(), req.Text)
	if err != nil {
		return messageError(c, err)
	}
	return c.JSON(http.StatusOK, message)
}

// PostAssistantMessage appends an externally obtained assistant answer
// directly, without querying the answering service.
// POST /v1/messages/assistant
func (h *Handler) PostAssistantMessage(c echo.Context) error {
	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	message, err := h.service.AddAssistantMessage(c.Request().Context(), req.Text)
	if err != nil {
		return messageError(c, err)
	}
	return c.JSON(http.StatusCreated, message)
}

// RegenerateMessage re-answers the assistant turn at the given index of the
// current conversation, discarding it and everything after it.
// POST /v1/messages/:index/regenerate
func (h *Handler) RegenerateMessage(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
	}

	message, err := h.service.Regenerate(c.Request().Context(), index)
	if err != nil {
		return messageError(c, err)
	}
	return c.JSON(http.StatusOK, message)
}

// messageError maps message-path errors to HTTP statuses. Cancellation gets
// 499: the client has gone away and will never see the response.
func messageError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return c.NoContent(statusClientClosedRequest)
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNoActiveConversation):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}
