package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landai/chatd/domain"
)

// CreateConversationRequest is the body for POST /v1/conversations.
type CreateConversationRequest struct {
	SeedText string `json:"seed_text"`
}

// SetCurrentRequest is the body for PUT /v1/conversations/current.
type SetCurrentRequest struct {
	ID string `json:"id"`
}

// CreateConversation starts a new conversation and makes it current.
// POST /v1/conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	conversation := h.service.StartNewConversation(c.Request().Context(), req.SeedText)
	return c.JSON(http.StatusCreated, conversation)
}

// ListConversations returns all conversations in default order; with ?q= it
// returns only conversations matching the query.
// GET /v1/conversations
func (h *Handler) ListConversations(c echo.Context) error {
	var conversations []*domain.Conversation
	if q := c.QueryParam("q"); q != "" {
		conversations = h.service.SearchConversations(q)
	} else {
		conversations = h.service.Conversations()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversations": conversations,
	})
}

// GetCurrentConversation returns the conversation the pointer references.
// GET /v1/conversations/current
func (h *Handler) GetCurrentConversation(c echo.Context) error {
	conversation, err := h.service.CurrentConversation()
	if err != nil {
		return conversationError(c, err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// SetCurrentConversation repoints the current-conversation pointer.
// PUT /v1/conversations/current
func (h *Handler) SetCurrentConversation(c echo.Context) error {
	var req SetCurrentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.service.SetActiveConversation(req.ID); err != nil {
		return conversationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteConversation removes a conversation. Idempotent: deleting an unknown
// ID still returns 204.
// DELETE /v1/conversations/:conversation_id
func (h *Handler) DeleteConversation(c echo.Context) error {
	h.service.DeleteConversation(c.Request().Context(), c.Param("conversation_id"))
	return c.NoContent(http.StatusNoContent)
}

// TogglePin flips a conversation's pin flag. No-op for unknown IDs.
// POST /v1/conversations/:conversation_id/pin
func (h *Handler) TogglePin(c echo.Context) error {
	h.service.TogglePin(c.Request().Context(), c.Param("conversation_id"))
	return c.NoContent(http.StatusNoContent)
}

// conversationError maps store precondition errors to HTTP statuses.
func conversationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNoActiveConversation):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
