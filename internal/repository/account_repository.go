package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/employee-service/internal/domain"
)

// AccountRepository handles persistence for login accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository instantiates the repository.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, username, password_hash, is_staff, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`

	id := uuid.NewString()
	if err := r.pool.QueryRow(ctx, query,
		id,
		account.Username,
		account.PasswordHash,
		account.IsStaff,
		account.IsActive,
	).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	account.ID = id
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts
        SET username=$1, password_hash=$2, is_staff=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.PasswordHash,
		account.IsStaff,
		account.IsActive,
		account.ID,
	).Scan(&account.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, username, password_hash, is_staff, is_active, created_at, updated_at
        FROM accounts WHERE id=$1`
	return r.scanOne(ctx, query, id)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `
        SELECT id, username, password_hash, is_staff, is_active, created_at, updated_at
        FROM accounts WHERE username=$1`
	return r.scanOne(ctx, query, username)
}

func (r *accountRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.IsStaff,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &account, nil
}
