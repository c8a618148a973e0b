package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/logging"
	"github.com/clubstake/backend/internal/repository"
)

type Service struct {
	accounts accountRepository
	ledger   ledgerRepository
	notifier Notifier
	db       *sql.DB
}

func NewService(accounts accountRepository, ledger ledgerRepository, notifier Notifier, db *sql.DB) *Service {
	return &Service{
		accounts: accounts,
		ledger:   ledger,
		notifier: notifier,
		db:       db,
	}
}

// Adjust applies an administrative balance mutation: the signed delta and
// its admin_adjust ledger entry commit together, then a notification naming
// the amount and reason is emitted. Notification failure is logged, never
// surfaced.
func (s *Service) Adjust(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if amount == 0 {
		return nil, fmt.Errorf("Adjust: %w", domain.ErrInvalidAmount)
	}

	var updated *domain.Account
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		updated, err = s.accounts.ApplyDelta(ctx, tx, accountID, amount)
		if err != nil {
			return fmt.Errorf("apply delta: %w", err)
		}

		entry := &domain.LedgerEntry{
			ID:          uuid.New(),
			AccountID:   accountID,
			Amount:      amount,
			Kind:        domain.EntryKindAdminAdjust,
			Description: description,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.ledger.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Adjust: %w", err)
	}

	log.Info("balance adjusted",
		"account_id", accountID,
		"amount", amount,
		"new_balance", updated.Balance,
	)

	msg := fmt.Sprintf("your balance was adjusted by %+d: %s", amount, description)
	if err := s.notifier.Notify(ctx, accountID, msg); err != nil {
		log.Warn("notification delivery failed", "account_id", accountID, "error", err)
	}

	return updated, nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return a, nil
}

func (s *Service) GetAccountForUser(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	a, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetAccountForUser: %w", err)
	}
	return a, nil
}

func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, int, error) {
	entries, total, err := s.ledger.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListTransactions: %w", err)
	}
	return entries, total, nil
}

func (s *Service) ListAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, 0, fmt.Errorf("ListAccountTransactions: %w", err)
	}

	entries, total, err := s.ledger.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListAccountTransactions: %w", err)
	}
	return entries, total, nil
}
