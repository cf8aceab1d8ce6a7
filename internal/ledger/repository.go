package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists transaction records. Records are never deleted;
// UpdateStatus is the only mutation after creation.
type Repository interface {
	Create(ctx context.Context, tx Transaction) error
	Get(ctx context.Context, id string) (Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a transaction repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a transaction record.
func (r *PostgresRepository) Create(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	senderID, err := uuid.Parse(tx.SenderID)
	if err != nil {
		return err
	}
	receiverID, err := uuid.Parse(tx.ReceiverID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions
        (id, sender_id, receiver_id, account_type, account_number, amount, reference, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txID, senderID, receiverID, tx.AccountType, tx.AccountNumber, tx.Amount, tx.Reference, tx.Status, tx.CreatedAt.UTC())
	return err
}

// Get fetches a transaction by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, sender_id, receiver_id, account_type, account_number, amount, reference, status, created_at
        FROM transactions WHERE id = $1`, txID)
	var (
		idVal      uuid.UUID
		senderID   uuid.UUID
		receiverID uuid.UUID
		createdAt  time.Time
		tx         Transaction
	)
	if err := row.Scan(&idVal, &senderID, &receiverID, &tx.AccountType, &tx.AccountNumber, &tx.Amount, &tx.Reference, &tx.Status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	tx.ID = idVal.String()
	tx.SenderID = senderID.String()
	tx.ReceiverID = receiverID.String()
	tx.CreatedAt = createdAt.UTC()
	return tx, nil
}

// UpdateStatus transitions the transaction status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, txID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
