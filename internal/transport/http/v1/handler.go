// Package v1 provides the HTTP handlers for the chatd API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landai/chatd/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Conversation API
	e.POST("/v1/conversations", h.CreateConversation)
	e.GET("/v1/conversations", h.ListConversations)
	e.GET("/v1/conversations/current", h.GetCurrentConversation)
	e.PUT("/v1/conversations/current", h.SetCurrentConversation)
	e.DELETE("/v1/conversations/:conversation_id", h.DeleteConversation)
	e.POST("/v1/conversations/:conversation_id/pin", h.TogglePin)

	// Message API (operates on the current conversation)
	e.POST("/v1/messages", h.PostMessage)
	e.POST("/v1/messages/assistant", h.PostAssistantMessage)
	e.POST("/v1/messages/:index/regenerate", h.RegenerateMessage)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
