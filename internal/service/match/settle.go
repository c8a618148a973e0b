package match

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

// Settle declares the winner and moves stakes, exactly once per match.
//
// The status claim and every payout run in one database transaction: the
// moment settled status is observable, all balance deltas and ledger
// entries for the match are committed with it. The claim itself is a
// conditional update, so of any concurrent callers only one proceeds to
// payouts; the others get ErrMatchSettled having changed nothing. A failed
// payout aborts the whole transaction and leaves the match undecided and
// retryable.
func (s *Service) Settle(ctx context.Context, matchID uuid.UUID, winner domain.Team) (*domain.Match, error) {
	log := logging.FromContext(ctx)

	if !winner.IsValid() {
		return nil, fmt.Errorf("Settle: %q: %w", winner, domain.ErrInvalidWinningTeam)
	}

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("Settle: %w", err)
	}
	if m.Status == domain.MatchStatusSettled {
		return nil, fmt.Errorf("Settle: %w", domain.ErrMatchSettled)
	}

	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matches.ClaimSettlement(ctx, tx, matchID, winner); err != nil {
			return err
		}
		return s.applyPayouts(ctx, tx, m, winner)
	})
	if err != nil {
		return nil, fmt.Errorf("Settle: %w", err)
	}

	log.Info("match settled",
		"match_id", matchID,
		"name", m.Name,
		"winning_team", winner,
	)

	settled, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("Settle: reload: %w", err)
	}
	return settled, nil
}

func (s *Service) applyPayouts(ctx context.Context, tx *sql.Tx, m *domain.Match, winner domain.Team) error {
	now := time.Now().UTC()

	for _, e := range m.Roster(winner) {
		if err := s.payOut(ctx, tx, e, m.Name, domain.EntryKindWin, e.Stake, now); err != nil {
			return fmt.Errorf("applyPayouts: winner %s: %w", e.AccountID, err)
		}
	}
	for _, e := range m.Roster(winner.Opponent()) {
		if err := s.payOut(ctx, tx, e, m.Name, domain.EntryKindLoss, -e.Stake, now); err != nil {
			return fmt.Errorf("applyPayouts: loser %s: %w", e.AccountID, err)
		}
	}
	return nil
}

func (s *Service) payOut(ctx context.Context, tx *sql.Tx, e domain.RosterEntry, matchName string, kind domain.EntryKind, amount int64, now time.Time) error {
	if _, err := s.accounts.ApplyDelta(ctx, tx, e.AccountID, amount); err != nil {
		return fmt.Errorf("payOut: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		AccountID:   e.AccountID,
		Amount:      amount,
		Kind:        kind,
		Description: fmt.Sprintf("%s on match %q", kind, matchName),
		CreatedAt:   now,
	}
	if err := s.ledger.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("payOut: %w", err)
	}
	return nil
}
