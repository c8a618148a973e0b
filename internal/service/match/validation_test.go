package match

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/clubstake/backend/internal/domain"
)

func TestSettle_RejectsInvalidWinningTeam(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		name   string
		winner domain.Team
	}{
		{name: "empty", winner: domain.Team("")},
		{name: "lowercase", winner: domain.Team("a")},
		{name: "unknown team", winner: domain.Team("C")},
		{name: "full word", winner: domain.Team("teamA")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Settle(context.Background(), uuid.New(), tc.winner)
			require.ErrorIs(t, err, domain.ErrInvalidWinningTeam)
		})
	}
}

func TestCreateMatch_RejectsNonPositiveStakes(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		name  string
		stake int64
	}{
		{name: "zero stake", stake: 0},
		{name: "negative stake", stake: -50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateMatch(context.Background(), "bad stakes",
				[]RosterInput{{AccountID: uuid.New(), DisplayName: "p1", Stake: tc.stake}},
				nil,
			)
			require.ErrorIs(t, err, domain.ErrInvalidStake)
		})
	}
}

func TestTeamOpponent(t *testing.T) {
	require.Equal(t, domain.TeamB, domain.TeamA.Opponent())
	require.Equal(t, domain.TeamA, domain.TeamB.Opponent())
}
