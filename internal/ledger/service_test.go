package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/safepay-connect/safepay/internal/identity"
	"github.com/safepay-connect/safepay/internal/wallet"
)

type fixture struct {
	identities identity.Repository
	wallets    wallet.Repository
	svc        *Service

	alice identity.User
	bob   identity.User

	aliceWallet wallet.Wallet
	bobWallet   wallet.Wallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		identities: identity.NewMemoryRepository(),
		wallets:    wallet.NewMemoryRepository(),
	}
	f.svc = NewService(f.identities, f.wallets, NewMemoryRepository(), nil)

	ctx := context.Background()
	ids := identity.NewService(f.identities)
	var err error
	f.alice, err = ids.Register(ctx, identity.Profile{Name: "Alice", Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	f.bob, err = ids.Register(ctx, identity.Profile{Name: "Bob", Username: "bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	walletSvc := wallet.NewService(f.wallets)
	f.aliceWallet, err = walletSvc.Create(ctx, wallet.CreateInput{
		OwnerID: f.alice.ID, Provider: "FNB", AccountType: "cheque", AccountNumber: "62000000001",
	})
	if err != nil {
		t.Fatalf("create alice wallet: %v", err)
	}
	f.bobWallet, err = walletSvc.Create(ctx, wallet.CreateInput{
		OwnerID: f.bob.ID, Provider: "Capitec", AccountType: "savings", AccountNumber: "13000000002",
	})
	if err != nil {
		t.Fatalf("create bob wallet: %v", err)
	}
	return f
}

func (f *fixture) historyOf(t *testing.T, walletID string) []string {
	t.Helper()
	w, err := f.wallets.FindByID(context.Background(), walletID)
	if err != nil {
		t.Fatalf("find wallet: %v", err)
	}
	return w.History
}

func countOf(history []string, txID string) int {
	n := 0
	for _, id := range history {
		if id == txID {
			n++
		}
	}
	return n
}

func TestCreateTransactionScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tx, err := f.svc.CreateTransaction(ctx, CreateInput{
		SenderID:          f.alice.ID,
		RecipientUsername: "bob",
		Amount:            250.50,
		Reference:         "test",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if tx.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", tx.Status)
	}
	if tx.SenderID != f.alice.ID || tx.ReceiverID != f.bob.ID {
		t.Fatalf("unexpected parties: %+v", tx)
	}
	if tx.AccountType != "cheque" || tx.AccountNumber != "62000000001" {
		t.Fatalf("expected sender account metadata on transaction, got %+v", tx)
	}

	aliceHist := f.historyOf(t, f.aliceWallet.ID)
	bobHist := f.historyOf(t, f.bobWallet.ID)
	if len(aliceHist) != 1 || len(bobHist) != 1 {
		t.Fatalf("expected one history entry each, got %v / %v", aliceHist, bobHist)
	}
	if countOf(aliceHist, tx.ID) != 1 || countOf(bobHist, tx.ID) != 1 {
		t.Fatalf("expected transaction id exactly once per history")
	}

	got, err := f.svc.GetTransaction(ctx, f.alice.ID, tx.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Amount != 250.50 || got.Reference != "test" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.ID != tx.ID || got.SenderID != tx.SenderID || got.ReceiverID != tx.ReceiverID ||
		got.AccountType != tx.AccountType || got.AccountNumber != tx.AccountNumber ||
		!got.CreatedAt.Equal(tx.CreatedAt) {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, tx)
	}
}

func TestCreateTransactionInvalidAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := f.svc.CreateTransaction(ctx, CreateInput{
			SenderID: f.alice.ID, RecipientUsername: "bob", Amount: amount,
		}); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if len(f.historyOf(t, f.aliceWallet.ID)) != 0 || len(f.historyOf(t, f.bobWallet.ID)) != 0 {
		t.Fatal("expected no history changes after rejected amounts")
	}
}

func TestCreateTransactionValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{"unknown recipient", CreateInput{SenderID: f.alice.ID, RecipientUsername: "nobody", Amount: 10}, ErrUnknownRecipient},
		{"self transfer", CreateInput{SenderID: f.alice.ID, RecipientUsername: "alice", Amount: 10}, ErrSelfTransfer},
		// amount is checked before recipient resolution
		{"amount before recipient", CreateInput{SenderID: f.alice.ID, RecipientUsername: "nobody", Amount: -1}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.CreateTransaction(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if len(f.historyOf(t, f.aliceWallet.ID)) != 0 || len(f.historyOf(t, f.bobWallet.ID)) != 0 {
		t.Fatal("expected no history changes after rejected requests")
	}
}

func TestCreateTransactionMissingWallets(t *testing.T) {
	identities := identity.NewMemoryRepository()
	wallets := wallet.NewMemoryRepository()
	svc := NewService(identities, wallets, NewMemoryRepository(), nil)
	ctx := context.Background()

	ids := identity.NewService(identities)
	sender, err := ids.Register(ctx, identity.Profile{Username: "carol", Email: "carol@example.com"})
	if err != nil {
		t.Fatalf("register sender: %v", err)
	}
	if _, err := ids.Register(ctx, identity.Profile{Username: "dave", Email: "dave@example.com"}); err != nil {
		t.Fatalf("register receiver: %v", err)
	}

	if _, err := svc.CreateTransaction(ctx, CreateInput{
		SenderID: sender.ID, RecipientUsername: "dave", Amount: 10,
	}); !errors.Is(err, ErrSenderWalletMissing) {
		t.Fatalf("expected ErrSenderWalletMissing, got %v", err)
	}

	walletSvc := wallet.NewService(wallets)
	if _, err := walletSvc.Create(ctx, wallet.CreateInput{OwnerID: sender.ID, Provider: "FNB"}); err != nil {
		t.Fatalf("create sender wallet: %v", err)
	}

	if _, err := svc.CreateTransaction(ctx, CreateInput{
		SenderID: sender.ID, RecipientUsername: "dave", Amount: 10,
	}); !errors.Is(err, ErrRecipientWalletMissing) {
		t.Fatalf("expected ErrRecipientWalletMissing, got %v", err)
	}
}

func TestCreateTransactionNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := CreateInput{SenderID: f.alice.ID, RecipientUsername: "bob", Amount: 50, Reference: "rent"}

	first, err := f.svc.CreateTransaction(ctx, input)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := f.svc.CreateTransaction(ctx, input)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("identical inputs must produce distinct transactions")
	}
	if len(f.historyOf(t, f.aliceWallet.ID)) != 2 || len(f.historyOf(t, f.bobWallet.ID)) != 2 {
		t.Fatal("expected two history entries per wallet")
	}
}

func TestGetTransactionAccessControl(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tx, err := f.svc.CreateTransaction(ctx, CreateInput{
		SenderID: f.alice.ID, RecipientUsername: "bob", Amount: 10,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if _, err := f.svc.GetTransaction(ctx, f.bob.ID, tx.ID); err != nil {
		t.Fatalf("receiver should be able to fetch: %v", err)
	}
	if _, err := f.svc.GetTransaction(ctx, "someone-else", tx.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.GetTransaction(ctx, f.alice.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentOpposingTransfers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const rounds = 25
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if _, err := f.svc.CreateTransaction(ctx, CreateInput{
				SenderID: f.alice.ID, RecipientUsername: "bob", Amount: 1, Reference: fmt.Sprintf("a2b-%d", i),
			}); err != nil {
				errs <- err
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			if _, err := f.svc.CreateTransaction(ctx, CreateInput{
				SenderID: f.bob.ID, RecipientUsername: "alice", Amount: 1, Reference: fmt.Sprintf("b2a-%d", i),
			}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent transfer failed: %v", err)
	}

	aliceHist := f.historyOf(t, f.aliceWallet.ID)
	bobHist := f.historyOf(t, f.bobWallet.ID)
	if len(aliceHist) != rounds*2 || len(bobHist) != rounds*2 {
		t.Fatalf("lost appends: alice=%d bob=%d, want %d each", len(aliceHist), len(bobHist), rounds*2)
	}
	seen := make(map[string]struct{}, len(aliceHist))
	for _, id := range aliceHist {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate history entry %s", id)
		}
		seen[id] = struct{}{}
	}
}

// failingWallets forces the append on one wallet to fail so the rollback
// path can be observed.
type failingWallets struct {
	wallet.Repository
	failWalletID string
}

func (f *failingWallets) AppendHistory(ctx context.Context, walletID, transactionID string) error {
	if walletID == f.failWalletID {
		return errors.New("storage write refused")
	}
	return f.Repository.AppendHistory(ctx, walletID, transactionID)
}

func TestCreateTransactionRollsBackOnRecipientAppendFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	failing := &failingWallets{Repository: f.wallets, failWalletID: f.bobWallet.ID}
	txRepo := NewMemoryRepository()
	svc := NewService(f.identities, failing, txRepo, nil)

	_, err := svc.CreateTransaction(ctx, CreateInput{
		SenderID: f.alice.ID, RecipientUsername: "bob", Amount: 10, Reference: "doomed",
	})
	if err == nil {
		t.Fatal("expected append failure to surface")
	}

	if len(f.historyOf(t, f.aliceWallet.ID)) != 0 {
		t.Fatal("sender history entry must be undone when recipient append fails")
	}
	if len(f.historyOf(t, f.bobWallet.ID)) != 0 {
		t.Fatal("recipient history must be untouched")
	}
}
