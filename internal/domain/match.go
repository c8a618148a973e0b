package domain

import (
	"time"

	"github.com/google/uuid"
)

type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

func (t Team) IsValid() bool {
	return t == TeamA || t == TeamB
}

func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

type MatchStatus string

const (
	MatchStatusUndecided MatchStatus = "undecided"
	MatchStatusSettled   MatchStatus = "settled"
)

// RosterEntry is one player's stake within a match. Paid transitions
// false to true exactly once and never reverts.
type RosterEntry struct {
	AccountID   uuid.UUID
	DisplayName string
	Stake       int64
	Paid        bool
}

// Match is a two-team wagering event. WinningTeam is set if and only if
// Status is settled; once settled, the rosters' stakes are immutable and
// only the paid flags may still change.
type Match struct {
	ID          uuid.UUID
	Name        string
	TeamA       []RosterEntry
	TeamB       []RosterEntry
	Status      MatchStatus
	WinningTeam *Team
	CreatedAt   time.Time
	SettledAt   *time.Time
}

func (m *Match) Roster(t Team) []RosterEntry {
	if t == TeamA {
		return m.TeamA
	}
	return m.TeamB
}
