package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/safepay-connect/safepay/internal/auth"
	"github.com/safepay-connect/safepay/internal/identity"
)

// RegisterAuthRoutes wires the login endpoint behind the rate limiter.
func RegisterAuthRoutes(r fiber.Router, creds *auth.Service, rateLimiter fiber.Handler) {
	r.Post("/login", rateLimiter, func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, token, err := creds.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrNotFound):
				return fiber.NewError(http.StatusNotFound, "user not found")
			case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrCredentialsMissing):
				return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
			default:
				return fiber.NewError(http.StatusInternalServerError, err.Error())
			}
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"userId":   user.ID,
			"username": user.Username,
			"name":     user.Name,
			"surname":  user.Surname,
			"email":    user.Email,
			"token":    token,
		})
	})
}
