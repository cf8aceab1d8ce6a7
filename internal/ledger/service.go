package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/safepay-connect/safepay/internal/identity"
	"github.com/safepay-connect/safepay/internal/notification"
	"github.com/safepay-connect/safepay/internal/wallet"
)

// Service creates transactions between two users' wallets and keeps both
// wallets' histories consistent. A createTransaction call is atomic with
// respect to other calls touching either wallet: the pair of wallets is
// locked in canonical order for the duration of the call, and a failed
// append is undone before the call returns.
type Service struct {
	identities   identity.Repository
	wallets      wallet.Repository
	transactions Repository
	notifier     notification.Notifier
	locks        *pairLocker
}

// NewService constructs the transaction ledger.
func NewService(identities identity.Repository, wallets wallet.Repository, transactions Repository, notifier notification.Notifier) *Service {
	return &Service{
		identities:   identities,
		wallets:      wallets,
		transactions: transactions,
		notifier:     notifier,
		locks:        newPairLocker(),
	}
}

// CreateInput captures the data needed to create a transaction. SenderID is
// the authenticated caller's identity.
type CreateInput struct {
	SenderID          string
	RecipientUsername string
	Amount            float64
	Reference         string
}

// CreateTransaction validates the request, persists a pending transaction
// and links it into both wallets' histories. Validation is fail-fast and
// order-significant: amount, recipient, self-transfer, sender wallet,
// recipient wallet. On success the transaction is returned as completed.
func (s *Service) CreateTransaction(ctx context.Context, input CreateInput) (Transaction, error) {
	if input.Amount <= 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return Transaction{}, ErrInvalidAmount
	}

	recipient, err := s.identities.FindByUsername(ctx, input.RecipientUsername)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Transaction{}, ErrUnknownRecipient
		}
		return Transaction{}, err
	}

	if recipient.ID == input.SenderID {
		return Transaction{}, ErrSelfTransfer
	}

	senderWallet, err := s.wallets.FindByOwner(ctx, input.SenderID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return Transaction{}, ErrSenderWalletMissing
		}
		return Transaction{}, err
	}

	recipientWallet, err := s.wallets.FindByOwner(ctx, recipient.ID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return Transaction{}, ErrRecipientWalletMissing
		}
		return Transaction{}, err
	}

	// Only the sender's account metadata is recorded on the transaction.
	tx := Transaction{
		ID:            uuid.New().String(),
		SenderID:      input.SenderID,
		ReceiverID:    recipient.ID,
		AccountType:   senderWallet.AccountType,
		AccountNumber: senderWallet.AccountNumber,
		Amount:        input.Amount,
		Reference:     input.Reference,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	unlock := s.locks.LockPair(senderWallet.ID, recipientWallet.ID)
	defer unlock()

	if err := s.transactions.Create(ctx, tx); err != nil {
		return Transaction{}, err
	}

	if err := s.wallets.AppendHistory(ctx, senderWallet.ID, tx.ID); err != nil {
		return Transaction{}, s.fail(ctx, tx.ID, err)
	}

	if err := s.wallets.AppendHistory(ctx, recipientWallet.ID, tx.ID); err != nil {
		if rbErr := s.wallets.RemoveHistory(ctx, senderWallet.ID, tx.ID); rbErr != nil {
			return Transaction{}, fmt.Errorf("undo sender history: %w", rbErr)
		}
		return Transaction{}, s.fail(ctx, tx.ID, err)
	}

	if err := s.transactions.UpdateStatus(ctx, tx.ID, StatusCompleted); err != nil {
		return Transaction{}, err
	}
	tx.Status = StatusCompleted

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransactionReceived,
			Destination: recipient.ID,
			Body:        fmt.Sprintf("You received %.2f, reference %q", tx.Amount, tx.Reference),
		})
	}

	return tx, nil
}

// GetTransaction fetches a transaction on behalf of callerID. Callers who
// are neither sender nor receiver get ErrForbidden.
func (s *Service) GetTransaction(ctx context.Context, callerID, id string) (Transaction, error) {
	tx, err := s.transactions.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if tx.SenderID != callerID && tx.ReceiverID != callerID {
		return Transaction{}, ErrForbidden
	}
	return tx, nil
}

// Resolve maps a wallet history to its transaction records, preserving
// history order and skipping ids that no longer resolve.
func (s *Service) Resolve(ctx context.Context, ids []string) ([]Transaction, error) {
	transactions := make([]Transaction, 0, len(ids))
	for _, id := range ids {
		tx, err := s.transactions.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// fail marks the transaction failed and reports the original cause. The
// failed record is kept as the trace of the attempt; its history entries
// have already been undone.
func (s *Service) fail(ctx context.Context, txID string, cause error) error {
	if err := s.transactions.UpdateStatus(ctx, txID, StatusFailed); err != nil {
		return fmt.Errorf("mark transaction failed: %w (cause: %v)", err, cause)
	}
	return cause
}
