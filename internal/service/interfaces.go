package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/domain"
)

type accountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	ApplyDelta(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount int64) (*domain.Account, error)
}

type ledgerRepository interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
	ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, int, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error)
}

// Notifier is a one-way sink for user-facing messages. Delivery is
// fire-and-forget: the ledger never waits on or fails because of it.
type Notifier interface {
	Notify(ctx context.Context, accountID uuid.UUID, message string) error
}
