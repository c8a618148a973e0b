package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clubstake/backend/internal/domain"
)

const matchColumns = `id, name, status, winning_team, created_at, settled_at`

type MatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, tx *sql.Tx, m *domain.Match) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO matches (id, name, status, winning_team, created_at, settled_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Status, nil, m.CreatedAt, nil,
	)
	if err != nil {
		return fmt.Errorf("Create: match: %w", err)
	}

	if err := r.insertRoster(ctx, tx, m.ID, domain.TeamA, m.TeamA); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if err := r.insertRoster(ctx, tx, m.ID, domain.TeamB, m.TeamB); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *MatchRepository) insertRoster(ctx context.Context, tx *sql.Tx, matchID uuid.UUID, team domain.Team, entries []domain.RosterEntry) error {
	for i, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, account_id, team, position, display_name, stake, paid)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			matchID, e.AccountID, team, i, e.DisplayName, e.Stake, e.Paid,
		)
		if err != nil {
			return fmt.Errorf("insertRoster: team %s entry %d: %w", team, i, err)
		}
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id,
	)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrMatchNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	if err := r.loadRosters(ctx, []*domain.Match{m}); err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return m, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var matches []*domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}

	if err := r.loadRosters(ctx, matches); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	result := make([]domain.Match, len(matches))
	for i, m := range matches {
		result[i] = *m
	}
	return result, nil
}

// ClaimSettlement transitions the match from undecided to settled in a
// single conditional update. Of any number of concurrent callers exactly
// one observes a row change; the rest get ErrMatchSettled and must not
// apply payouts.
func (r *MatchRepository) ClaimSettlement(ctx context.Context, tx *sql.Tx, id uuid.UUID, winner domain.Team) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE matches SET status = $2, winning_team = $3, settled_at = $4
		 WHERE id = $1 AND status = $5`,
		id, domain.MatchStatusSettled, winner, time.Now().UTC(), domain.MatchStatusUndecided,
	)
	if err != nil {
		return fmt.Errorf("ClaimSettlement: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ClaimSettlement: rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var status domain.MatchStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM matches WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("ClaimSettlement: %w", domain.ErrMatchNotFound)
		}
		return fmt.Errorf("ClaimSettlement: %w", err)
	}
	return fmt.Errorf("ClaimSettlement: %w", domain.ErrMatchSettled)
}

// MarkPaid sets the paid flag on the roster entry for accountID. It reports
// whether the flag was newly set: re-marking an already-paid entry is a
// no-op success with newly = false.
func (r *MatchRepository) MarkPaid(ctx context.Context, tx *sql.Tx, matchID, accountID uuid.UUID) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE match_players SET paid = TRUE
		 WHERE match_id = $1 AND account_id = $2 AND paid = FALSE`,
		matchID, accountID,
	)
	if err != nil {
		return false, fmt.Errorf("MarkPaid: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("MarkPaid: rows affected: %w", err)
	}
	if rows > 0 {
		return true, nil
	}

	var paid bool
	err = tx.QueryRowContext(ctx,
		`SELECT paid FROM match_players WHERE match_id = $1 AND account_id = $2`,
		matchID, accountID,
	).Scan(&paid)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("MarkPaid: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, matchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("MarkPaid: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("MarkPaid: %w", domain.ErrMatchNotFound)
	}
	return false, fmt.Errorf("MarkPaid: %w", domain.ErrPlayerNotInMatch)
}

func (r *MatchRepository) loadRosters(ctx context.Context, matches []*domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Match, len(matches))
	ids := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		byID[m.ID] = m
		ids[i] = m.ID
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, account_id, team, display_name, stake, paid
		 FROM match_players
		 WHERE match_id = ANY($1)
		 ORDER BY match_id, team, position`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("loadRosters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID uuid.UUID
			team    domain.Team
			e       domain.RosterEntry
		)
		if err := rows.Scan(&matchID, &e.AccountID, &team, &e.DisplayName, &e.Stake, &e.Paid); err != nil {
			return fmt.Errorf("loadRosters: scan: %w", err)
		}
		m := byID[matchID]
		if team == domain.TeamA {
			m.TeamA = append(m.TeamA, e)
		} else {
			m.TeamB = append(m.TeamB, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("loadRosters: rows: %w", err)
	}
	return nil
}

func scanMatch(s scanner) (*domain.Match, error) {
	var (
		m      domain.Match
		winner sql.NullString
	)
	err := s.Scan(&m.ID, &m.Name, &m.Status, &winner, &m.CreatedAt, &m.SettledAt)
	if err != nil {
		return nil, err
	}
	if winner.Valid {
		t := domain.Team(winner.String)
		m.WinningTeam = &t
	}
	return &m, nil
}
