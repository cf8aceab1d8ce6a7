package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service exposes wallet operations.
type Service struct {
	repo Repository
}

// NewService builds a wallet service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID       string
	Provider      string
	AccountType   string
	AccountNumber string
}

// Create provisions the owner's wallet with an empty history. A second
// wallet for the same owner yields ErrConflict.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Wallet{}, fmt.Errorf("invalid owner id: %w", err)
	}

	wallet := Wallet{
		ID:            uuid.New().String(),
		OwnerID:       input.OwnerID,
		Provider:      input.Provider,
		AccountType:   input.AccountType,
		AccountNumber: input.AccountNumber,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, wallet); err != nil {
		return Wallet{}, err
	}

	return wallet, nil
}

// GetByOwner retrieves the wallet belonging to ownerID.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// Update applies the non-empty patch fields to the owner's wallet and
// returns the updated record.
func (s *Service) Update(ctx context.Context, ownerID string, patch Patch) (Wallet, error) {
	return s.repo.Update(ctx, ownerID, patch)
}
