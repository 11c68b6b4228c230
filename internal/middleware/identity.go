package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"chat-quiz/internal/domain"
)

const (
	UserIDHeader = "X-User-ID"
	UserIDKey    = "userID" // Key for storing UserID in fiber.Ctx locals
)

// RequireUser reads the caller identity set by the upstream gateway and
// rejects requests without one.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(UserIDHeader))
		if userID == "" {
			return domain.NewUnauthorizedError("Missing " + UserIDHeader + " header")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the identity stored by RequireUser.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
