package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/safepay-connect/safepay/internal/ledger"
	"github.com/safepay-connect/safepay/internal/middleware"
	"github.com/safepay-connect/safepay/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints. The view endpoint resolves
// the wallet's history into full transaction records, in history order.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, wallets *wallet.Service, transactions *ledger.Service) {
	r.Post("/createWallet", h.Create)
	r.Patch("/updateWallet", h.Update)

	r.Get("/viewWallet", func(c *fiber.Ctx) error {
		uid, _ := c.Locals(middleware.UserIDKey).(string)

		w, err := wallets.GetByOwner(c.UserContext(), uid)
		if err != nil {
			if errors.Is(err, wallet.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "wallet not found")
			}
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		history, err := transactions.Resolve(c.UserContext(), w.History)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"provider":     w.Provider,
			"walletNumber": w.AccountNumber,
			"transactions": ledger.TransactionsJSON(history),
		})
	})
}
