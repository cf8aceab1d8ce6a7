package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrConflict indicates the owner already has a wallet.
	ErrConflict = errors.New("wallet already exists")

	// ErrNotFound indicates no wallet matches the lookup key.
	ErrNotFound = errors.New("wallet not found")
)

// Repository persists wallet records. At most one wallet exists per owner.
// RemoveHistory exists solely so the ledger can undo an append when the
// second half of a transaction fails; it is not part of the public API.
type Repository interface {
	Create(ctx context.Context, wallet Wallet) error
	FindByOwner(ctx context.Context, ownerID string) (Wallet, error)
	FindByID(ctx context.Context, id string) (Wallet, error)
	Update(ctx context.Context, ownerID string, patch Patch) (Wallet, error)
	AppendHistory(ctx context.Context, walletID, transactionID string) error
	RemoveHistory(ctx context.Context, walletID, transactionID string) error
}

// PostgresRepository stores wallets in PostgreSQL. History entries live in a
// wallet_history table ordered by a serial position column.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record, rejecting a second wallet for the owner.
func (r *PostgresRepository) Create(ctx context.Context, wallet Wallet) error {
	walletID, err := uuid.Parse(wallet.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(wallet.OwnerID)
	if err != nil {
		return err
	}

	var existing uuid.UUID
	err = r.db.QueryRow(ctx, `SELECT id FROM wallets WHERE owner_id = $1`, ownerID).Scan(&existing)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, provider, account_type, account_number, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		walletID, ownerID, wallet.Provider, wallet.AccountType, wallet.AccountNumber, wallet.CreatedAt.UTC())
	return err
}

// FindByOwner fetches the wallet belonging to ownerID, history included.
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	return r.findOne(ctx, `SELECT id, owner_id, provider, account_type, account_number, created_at
        FROM wallets WHERE owner_id = $1`, owner)
}

// FindByID fetches a wallet by identifier, history included.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Wallet, error) {
	walletID, err := uuid.Parse(id)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	return r.findOne(ctx, `SELECT id, owner_id, provider, account_type, account_number, created_at
        FROM wallets WHERE id = $1`, walletID)
}

// Update applies the non-empty patch fields to the owner's wallet.
func (r *PostgresRepository) Update(ctx context.Context, ownerID string, patch Patch) (Wallet, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE wallets SET
        provider = COALESCE(NULLIF($1, ''), provider),
        account_type = COALESCE(NULLIF($2, ''), account_type),
        account_number = COALESCE(NULLIF($3, ''), account_number)
        WHERE owner_id = $4`,
		patch.Provider, patch.AccountType, patch.AccountNumber, owner)
	if err != nil {
		return Wallet{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Wallet{}, ErrNotFound
	}
	return r.FindByOwner(ctx, ownerID)
}

// AppendHistory adds a transaction id to the end of the wallet's history.
func (r *PostgresRepository) AppendHistory(ctx context.Context, walletID, transactionID string) error {
	wID, err := uuid.Parse(walletID)
	if err != nil {
		return ErrNotFound
	}
	txID, err := uuid.Parse(transactionID)
	if err != nil {
		return err
	}

	var exists uuid.UUID
	if err := r.db.QueryRow(ctx, `SELECT id FROM wallets WHERE id = $1`, wID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO wallet_history (wallet_id, transaction_id)
        VALUES ($1, $2)`, wID, txID)
	return err
}

// RemoveHistory deletes a transaction id from the wallet's history.
func (r *PostgresRepository) RemoveHistory(ctx context.Context, walletID, transactionID string) error {
	wID, err := uuid.Parse(walletID)
	if err != nil {
		return ErrNotFound
	}
	txID, err := uuid.Parse(transactionID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `DELETE FROM wallet_history WHERE wallet_id = $1 AND transaction_id = $2`, wID, txID)
	return err
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (Wallet, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
		w         Wallet
	)
	if err := row.Scan(&id, &ownerID, &w.Provider, &w.AccountType, &w.AccountNumber, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	w.ID = id.String()
	w.OwnerID = ownerID.String()
	w.CreatedAt = createdAt.UTC()

	rows, err := r.db.Query(ctx, `SELECT transaction_id FROM wallet_history
        WHERE wallet_id = $1 ORDER BY position`, id)
	if err != nil {
		return Wallet{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var txID uuid.UUID
		if err := rows.Scan(&txID); err != nil {
			return Wallet{}, err
		}
		w.History = append(w.History, txID.String())
	}
	if err := rows.Err(); err != nil {
		return Wallet{}, err
	}
	return w, nil
}
