package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/domain"
)

const accountColumns = `id, user_id, balance, paid_match_count, status, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUserID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, balance, paid_match_count, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.UserID, account.Balance, account.PaidMatchCount,
		account.Status, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ApplyDelta adds amount (which may be negative) to the account balance as
// a single atomic increment. Concurrent deltas on the same account never
// lose updates because the read-modify-write happens in the database.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount int64) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`UPDATE accounts SET balance = balance + $2
		 WHERE id = $1
		 RETURNING `+accountColumns, id, amount,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ApplyDelta: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("ApplyDelta: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) IncrementPaidCount(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`UPDATE accounts SET paid_match_count = paid_match_count + 1
		 WHERE id = $1
		 RETURNING `+accountColumns, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("IncrementPaidCount: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("IncrementPaidCount: %w", err)
	}
	return a, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.Balance, &a.PaidMatchCount, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
