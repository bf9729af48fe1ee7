package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/connection"
)

// ConnectionHandler reports the realtime channel state.
type ConnectionHandler struct {
	tracker *connection.Tracker
}

// NewConnectionHandler constructs handler.
func NewConnectionHandler(tracker *connection.Tracker) *ConnectionHandler {
	return &ConnectionHandler{tracker: tracker}
}

// Status GET /views/connection.
func (h *ConnectionHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.tracker.Status()})
}
