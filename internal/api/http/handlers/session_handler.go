package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/api/dto"
	"github.com/spec-kit/ticket-console/internal/auth"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// SessionHandler exposes the console login state.
type SessionHandler struct {
	session *auth.Session
}

// NewSessionHandler constructs handler.
func NewSessionHandler(session *auth.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// Current GET /session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	user := h.session.User()
	return c.JSON(fiber.Map{
		"authenticated": user != nil,
		"data":          user,
	})
}

// Login POST /session.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := h.session.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"authenticated": true, "data": user})
}

// Logout DELETE /session.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.session.Logout(c.UserContext()); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}
