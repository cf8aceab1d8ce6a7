package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes wallet creation and update endpoints. Viewing a wallet
// lives in the routes layer because it also resolves transaction records.
type Handler struct {
	service *Service
}

// NewHandler constructs a wallet handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Provider     string `json:"provider"`
	Type         string `json:"type"`
	WalletNumber string `json:"walletNumber"`
}

// Create provisions a wallet for the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	w, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:       uid,
		Provider:      req.Provider,
		AccountType:   req.Type,
		AccountNumber: req.WalletNumber,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return fiber.NewError(http.StatusBadRequest, "wallet already exists")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Wallet successfully created",
		"walletId": w.ID,
	})
}

type updateRequest struct {
	Provider     string `json:"provider"`
	Type         string `json:"type"`
	WalletNumber string `json:"walletNumber"`
}

// Update applies a partial update to the caller's wallet. Absent or empty
// fields leave the stored values unchanged.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	w, err := h.service.Update(c.UserContext(), uid, Patch{
		Provider:      req.Provider,
		AccountType:   req.Type,
		AccountNumber: req.WalletNumber,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Wallet updated successfully",
		"wallet": fiber.Map{
			"walletId":     w.ID,
			"provider":     w.Provider,
			"type":         w.AccountType,
			"walletNumber": w.AccountNumber,
		},
	})
}
