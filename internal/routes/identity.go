package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/safepay-connect/safepay/internal/auth"
	"github.com/safepay-connect/safepay/internal/identity"
)

// RegisterIdentityRoutes wires the registration endpoint. A registration
// stores the profile in the identity store and the hashed password in the
// credential store.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, creds *auth.Service, logger *slog.Logger) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req struct {
			Name        string `json:"name"`
			Surname     string `json:"surname"`
			Username    string `json:"username"`
			PhoneNumber string `json:"phoneNumber"`
			Password    string `json:"password"`
			Email       string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, err := ids.Register(c.UserContext(), identity.Profile{
			Name:        req.Name,
			Surname:     req.Surname,
			Username:    req.Username,
			PhoneNumber: req.PhoneNumber,
			Email:       req.Email,
		})
		if err != nil {
			if errors.Is(err, identity.ErrConflict) {
				return fiber.NewError(http.StatusBadRequest, "user already exists")
			}
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		if err := creds.SetPassword(c.UserContext(), user.ID, req.Password); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		logger.Info("user registered", "user_id", user.ID)
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message": "User has been registered",
			"userId":  user.ID,
		})
	})
}
