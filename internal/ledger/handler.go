package ledger

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes transaction endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transaction handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createTransactionRequest struct {
	Username  string  `json:"username"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
}

// Create processes a transfer from the authenticated caller to the named
// recipient.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	tx, err := h.service.CreateTransaction(c.UserContext(), CreateInput{
		SenderID:          uid,
		RecipientUsername: req.Username,
		Amount:            req.Amount,
		Reference:         req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, "invalid amount")
		case errors.Is(err, ErrUnknownRecipient):
			return fiber.NewError(http.StatusBadRequest, "invalid user")
		case errors.Is(err, ErrSelfTransfer):
			return fiber.NewError(http.StatusBadRequest, "cannot send to yourself")
		case errors.Is(err, ErrSenderWalletMissing):
			return fiber.NewError(http.StatusBadRequest, "sender has no wallet")
		case errors.Is(err, ErrRecipientWalletMissing):
			return fiber.NewError(http.StatusBadRequest, "recipient has no wallet")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":       "Transaction Created",
		"status":        tx.Status,
		"transactionID": tx.ID,
	})
}

// Get returns a transaction to one of its parties.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	tx, err := h.service.GetTransaction(c.UserContext(), uid, c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "transaction not found")
		case errors.Is(err, ErrForbidden):
			return fiber.NewError(http.StatusForbidden, "not a party to this transaction")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(transactionJSON(tx))
}

// transactionJSON renders a transaction in the wire format shared by
// getTransaction and viewWallet.
func transactionJSON(tx Transaction) fiber.Map {
	return fiber.Map{
		"transactionID": tx.ID,
		"senderID":      tx.SenderID,
		"receiverID":    tx.ReceiverID,
		"type":          tx.AccountType,
		"walletNumber":  tx.AccountNumber,
		"amount":        tx.Amount,
		"reference":     tx.Reference,
		"status":        tx.Status,
		"timestamp":     tx.CreatedAt,
	}
}

// TransactionsJSON renders a history's transactions for the wallet view.
func TransactionsJSON(txs []Transaction) []fiber.Map {
	out := make([]fiber.Map, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionJSON(tx))
	}
	return out
}
