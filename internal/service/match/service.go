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

type matchRepo interface {
	Create(ctx context.Context, tx *sql.Tx, m *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	List(ctx context.Context) ([]domain.Match, error)
	ClaimSettlement(ctx context.Context, tx *sql.Tx, id uuid.UUID, winner domain.Team) error
	MarkPaid(ctx context.Context, tx *sql.Tx, matchID, accountID uuid.UUID) (bool, error)
}

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ApplyDelta(ctx context.Context, tx *sql.Tx, id uuid.UUID, amount int64) (*domain.Account, error)
	IncrementPaidCount(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
}

type ledgerRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error
}

type Service struct {
	matches  matchRepo
	accounts accountRepo
	ledger   ledgerRepo
	db       *sql.DB
}

func NewService(matches matchRepo, accounts accountRepo, ledger ledgerRepo, db *sql.DB) *Service {
	return &Service{
		matches:  matches,
		accounts: accounts,
		ledger:   ledger,
		db:       db,
	}
}

// RosterInput is one caller-supplied roster slot for match creation.
type RosterInput struct {
	AccountID   uuid.UUID
	DisplayName string
	Stake       int64
}

// CreateMatch stores the rosters as given. Stakes must be positive, but
// the two teams' stake totals are deliberately not required to be equal:
// that matches the club's historical bookkeeping, where lopsided matches
// are allowed and settle non-zero-sum.
func (s *Service) CreateMatch(ctx context.Context, name string, teamA, teamB []RosterInput) (*domain.Match, error) {
	log := logging.FromContext(ctx)

	if err := validateRoster(teamA); err != nil {
		return nil, fmt.Errorf("CreateMatch: team A: %w", err)
	}
	if err := validateRoster(teamB); err != nil {
		return nil, fmt.Errorf("CreateMatch: team B: %w", err)
	}

	for _, in := range append(append([]RosterInput{}, teamA...), teamB...) {
		if _, err := s.accounts.GetByID(ctx, in.AccountID); err != nil {
			return nil, fmt.Errorf("CreateMatch: account %s: %w", in.AccountID, err)
		}
	}

	m := &domain.Match{
		ID:        uuid.New(),
		Name:      name,
		TeamA:     toRoster(teamA),
		TeamB:     toRoster(teamB),
		Status:    domain.MatchStatusUndecided,
		CreatedAt: time.Now().UTC(),
	}

	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.matches.Create(ctx, tx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("CreateMatch: %w", err)
	}

	log.Info("match created",
		"match_id", m.ID,
		"name", m.Name,
		"team_a_size", len(m.TeamA),
		"team_b_size", len(m.TeamB),
	)
	return m, nil
}

func (s *Service) GetMatch(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetMatch: %w", err)
	}
	return m, nil
}

func (s *Service) ListMatches(ctx context.Context) ([]domain.Match, error) {
	matches, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListMatches: %w", err)
	}
	return matches, nil
}

func validateRoster(entries []RosterInput) error {
	for i, e := range entries {
		if e.Stake <= 0 {
			return fmt.Errorf("entry %d: %w", i, domain.ErrInvalidStake)
		}
	}
	return nil
}

func toRoster(entries []RosterInput) []domain.RosterEntry {
	roster := make([]domain.RosterEntry, len(entries))
	for i, e := range entries {
		roster[i] = domain.RosterEntry{
			AccountID:   e.AccountID,
			DisplayName: e.DisplayName,
			Stake:       e.Stake,
		}
	}
	return roster
}
