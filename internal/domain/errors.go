package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPlayerNotInMatch   = errors.New("player not in match")
	ErrMatchSettled       = errors.New("match already settled")
	ErrInvalidWinningTeam = errors.New("winning team must be A or B")
	ErrInvalidStake       = errors.New("stake must be greater than zero")
	ErrInvalidAmount      = errors.New("amount must not be zero")
	ErrInvalidRequest     = errors.New("invalid request")
)
