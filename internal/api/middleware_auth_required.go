package api

import (
	"github.com/gofiber/fiber/v2"
)

// AuthRequired admits requests carrying a valid admin token. Admins with a
// temporary password may only change it or inspect their session.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	admin, err := handler.authenticateRequest(c)
	if err != nil {
		return handler.respondErrorCode(c, fiber.StatusUnauthorized, kindUnauthorized, "unauthorized")
	}

	c.Locals(contextAdminKey, admin)
	if admin.MustChangePassword && !allowedBeforePasswordChange(c.Path()) {
		return handler.respondErrorCode(c, fiber.StatusForbidden, kindUnauthorized, "password_change_required")
	}
	return c.Next()
}

func allowedBeforePasswordChange(path string) bool {
	return path == "/api/auth/password" || path == "/api/auth/me"
}
