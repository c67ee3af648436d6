package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/http/util"
)

const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "_token"
)

// CSRF requires a token bound to the current session on state-changing
// methods. It must run after Session.
func CSRF(tokens *util.TokenSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		token := c.Get(CSRFHeader)
		if token == "" {
			token = c.FormValue(CSRFFormField)
		}
		if token == "" {
			var body struct {
				Token string `json:"_token"`
			}
			if c.Is("json") {
				_ = c.BodyParser(&body)
			}
			token = body.Token
		}

		if token == "" || tokens.Validate(GetSessionID(c), token) != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "invalid csrf token",
			})
		}
		return c.Next()
	}
}
