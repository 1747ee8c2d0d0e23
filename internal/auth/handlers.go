package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		user, err := svc.SignUp(c.Context(), req.Email, req.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req SignInRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email and password required")
		}
		res, err := svc.SignIn(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrProviderAuth) {
				return fiber.NewError(fiber.StatusUnauthorized, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	})

	r.Post("/logout", authMiddleware, func(c *fiber.Ctx) error {
		sessionID, _ := c.Locals("session_id").(string)
		svc.SignOut(c.Context(), sessionID)
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/session", authMiddleware, func(c *fiber.Ctx) error {
		sessionID, _ := c.Locals("session_id").(string)
		sess, err := svc.CurrentSession(c.Context(), sessionID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "no active session")
		}
		return c.JSON(fiber.Map{"session": sess})
	})
}
