package ledger

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu           sync.RWMutex
	transactions map[string]Transaction
}

// NewMemoryRepository builds an in-memory transaction store for development
// and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{transactions: make(map[string]Transaction)}
}

func (r *memoryRepository) Create(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[tx.ID] = tx
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.transactions[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return ErrNotFound
	}
	tx.Status = status
	r.transactions[id] = tx
	return nil
}
