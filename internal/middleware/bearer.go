package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/safepay-connect/safepay/internal/auth"
	"github.com/safepay-connect/safepay/internal/identity"
)

// UserIDKey is the Locals key under which the authenticated caller's user id
// is stored.
const UserIDKey = "user_id"

// BearerAuth validates bearer tokens and resolves them to a registered user.
// The user id is stored in Locals for downstream handlers.
func BearerAuth(tokens *auth.Service, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		sub, err := tokens.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := repo.FindByID(c.UserContext(), sub)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unknown subject")
		}

		c.Locals(UserIDKey, user.ID)
		return c.Next()
	}
}
