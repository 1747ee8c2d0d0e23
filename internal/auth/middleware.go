package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Middleware validates bearer tokens against live sessions and stores
// user_id and session_id in locals.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		sess, err := svc.Validate(c.Context(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}

		c.Locals("user_id", sess.UserID)
		c.Locals("session_id", sess.ID)
		return c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
