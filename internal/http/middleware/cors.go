package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORS answers preflight requests and sets the allow headers. An empty
// origin means any origin; credentials are only allowed for a fixed origin.
func CORS(allowOrigin string) fiber.Handler {
	origin := strings.TrimRight(allowOrigin, "/")
	if origin == "" {
		origin = "*"
	}

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Origin, Content-Type, Accept, "+CSRFHeader+", "+RequestIDHeader)
		c.Set(fiber.HeaderAccessControlExposeHeaders, "Content-Length, Content-Type, "+RequestIDHeader)
		c.Set(fiber.HeaderAccessControlMaxAge, "86400")
		if origin != "*" {
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			c.Vary(fiber.HeaderOrigin)
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
