package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/app/model"
)

// RequireAdmin rejects anonymous requests with 401 and sessions lacking
// ROLE_ADMIN with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := GetSession(c)
		if data == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}
		if !data.HasRole(model.RoleAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin role required",
			})
		}
		return c.Next()
	}
}
