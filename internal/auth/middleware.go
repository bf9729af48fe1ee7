package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

const userKey = "auth_user"

// RequireSession rejects view requests while the console is logged out and
// exposes the current user to handlers.
func RequireSession(session *Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := session.User()
		if user == nil {
			return apperrors.NewUnauthorized("console is not logged in")
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// UserFromContext retrieves the user stored by RequireSession.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
