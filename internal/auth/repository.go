package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCredentialsMissing indicates no credential record exists for the user.
var ErrCredentialsMissing = errors.New("credentials not found")

// Repository stores password hashes separately from profile data, keyed by
// user id.
type Repository interface {
	Save(ctx context.Context, userID string, passwordHash []byte) error
	Find(ctx context.Context, userID string) ([]byte, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed credential repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the credential record for the user.
func (r *PostgresRepository) Save(ctx context.Context, userID string, passwordHash []byte) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO credentials (user_id, password_hash) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash`, id, passwordHash)
	return err
}

// Find fetches the password hash for the user.
func (r *PostgresRepository) Find(ctx context.Context, userID string) ([]byte, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrCredentialsMissing
	}
	var hash []byte
	if err := r.db.QueryRow(ctx, `SELECT password_hash FROM credentials WHERE user_id = $1`, id).Scan(&hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialsMissing
		}
		return nil, err
	}
	return hash, nil
}

type memoryRepository struct {
	mu     sync.RWMutex
	hashes map[string][]byte
}

// NewMemoryRepository builds an in-memory credential store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{hashes: make(map[string][]byte)}
}

func (r *memoryRepository) Save(_ context.Context, userID string, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hashes[userID] = passwordHash
	return nil
}

func (r *memoryRepository) Find(_ context.Context, userID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.hashes[userID]
	if !ok {
		return nil, ErrCredentialsMissing
	}
	return hash, nil
}
