package wallet

import (
	"context"
	"sync"
)

// memoryRepository keeps wallets indexed by id and by owner so both lookups
// stay constant time.
type memoryRepository struct {
	mu      sync.RWMutex
	wallets map[string]Wallet
	byOwner map[string]string
}

// NewMemoryRepository constructs an in-memory repository for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		wallets: make(map[string]Wallet),
		byOwner: make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, wallet Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byOwner[wallet.OwnerID]; exists {
		return ErrConflict
	}
	r.wallets[wallet.ID] = wallet
	r.byOwner[wallet.OwnerID] = wallet.ID
	return nil
}

func (r *memoryRepository) FindByOwner(_ context.Context, ownerID string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOwner[ownerID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return cloneWallet(r.wallets[id]), nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return cloneWallet(w), nil
}

func (r *memoryRepository) Update(_ context.Context, ownerID string, patch Patch) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byOwner[ownerID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	w := r.wallets[id]
	if patch.Provider != "" {
		w.Provider = patch.Provider
	}
	if patch.AccountType != "" {
		w.AccountType = patch.AccountType
	}
	if patch.AccountNumber != "" {
		w.AccountNumber = patch.AccountNumber
	}
	r.wallets[id] = w
	return cloneWallet(w), nil
}

func (r *memoryRepository) AppendHistory(_ context.Context, walletID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return ErrNotFound
	}
	w.History = append(w.History, transactionID)
	r.wallets[walletID] = w
	return nil
}

func (r *memoryRepository) RemoveHistory(_ context.Context, walletID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return ErrNotFound
	}
	for i, id := range w.History {
		if id == transactionID {
			w.History = append(w.History[:i], w.History[i+1:]...)
			break
		}
	}
	r.wallets[walletID] = w
	return nil
}

// cloneWallet copies the history slice so callers never alias internal state.
func cloneWallet(w Wallet) Wallet {
	if len(w.History) > 0 {
		history := make([]string, len(w.History))
		copy(history, w.History)
		w.History = history
	}
	return w
}
