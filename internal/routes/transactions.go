package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/safepay-connect/safepay/internal/ledger"
)

// RegisterTransactionRoutes wires transaction endpoints.
func RegisterTransactionRoutes(r fiber.Router, h *ledger.Handler) {
	r.Post("/createTransaction", h.Create)
	r.Get("/getTransaction/:id", h.Get)
}
