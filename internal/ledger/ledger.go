package ledger

import (
	"errors"
	"time"
)

// Transaction status values. A transaction is created pending and moves to
// completed once both wallet-history appends succeed, or to failed when a
// step after persistence cannot be completed. Both outcomes are terminal.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	// ErrInvalidAmount occurs when the amount is not a finite number
	// strictly greater than zero.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownRecipient occurs when the recipient username does not
	// resolve to a registered user.
	ErrUnknownRecipient = errors.New("unknown recipient")

	// ErrSelfTransfer occurs when the sender names themself as recipient.
	ErrSelfTransfer = errors.New("self transfer not allowed")

	// ErrSenderWalletMissing occurs when the sender has no wallet.
	ErrSenderWalletMissing = errors.New("sender has no wallet")

	// ErrRecipientWalletMissing occurs when the recipient has no wallet.
	ErrRecipientWalletMissing = errors.New("recipient has no wallet")

	// ErrNotFound indicates no transaction matches the identifier.
	ErrNotFound = errors.New("transaction not found")

	// ErrForbidden indicates the caller is neither sender nor receiver of
	// the requested transaction.
	ErrForbidden = errors.New("caller is not a party to the transaction")
)

// Transaction is an immutable record of one transfer attempt between two
// identities. AccountType and AccountNumber are copied from the sender's
// wallet at creation time; only the sender side is recorded.
type Transaction struct {
	ID            string
	SenderID      string
	ReceiverID    string
	AccountType   string
	AccountNumber string
	Amount        float64
	Reference     string
	Status        string
	CreatedAt     time.Time
}
