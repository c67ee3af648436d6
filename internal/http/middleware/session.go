package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/LinkDesk/internal/http/session"
	"go.uber.org/zap"
)

const (
	localSession   = "session"
	localSessionID = "session_id"
)

// Session resolves the session cookie into request locals. Requests without
// a valid session continue anonymously.
func Session(store *session.Store, cookieName string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if id == "" {
			return c.Next()
		}

		data, err := store.Get(c.UserContext(), id)
		switch {
		case err == nil:
			c.Locals(localSession, data)
			c.Locals(localSessionID, id)
		case errors.Is(err, session.ErrNotFound):
			c.ClearCookie(cookieName)
		default:
			logger.Error("failed to load session", zap.Error(err), zap.String("request_id", GetRequestID(c)))
		}
		return c.Next()
	}
}

// GetSession returns the current session, or nil when anonymous.
func GetSession(c *fiber.Ctx) *session.Data {
	data, _ := c.Locals(localSession).(*session.Data)
	return data
}

// GetSessionID returns the current session id, or "".
func GetSessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}
