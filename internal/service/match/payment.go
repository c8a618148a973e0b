package match

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/logging"
	"github.com/clubstake/backend/internal/repository"
)

// RecordPayment marks a player's roster entry as paid and, only when the
// entry was not already paid, increments the player's lifetime paid-match
// counter. Mark and count commit together, so calling this twice for the
// same entry increments the counter exactly once.
func (s *Service) RecordPayment(ctx context.Context, matchID, accountID uuid.UUID) (*domain.Match, error) {
	log := logging.FromContext(ctx)

	var newlyMarked bool
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		newlyMarked, err = s.matches.MarkPaid(ctx, tx, matchID, accountID)
		if err != nil {
			return err
		}
		if !newlyMarked {
			return nil
		}

		if _, err := s.accounts.IncrementPaidCount(ctx, tx, accountID); err != nil {
			return fmt.Errorf("increment paid count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	log.Info("payment recorded",
		"match_id", matchID,
		"account_id", accountID,
		"newly_marked", newlyMarked,
	)

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("RecordPayment: reload: %w", err)
	}
	return m, nil
}
