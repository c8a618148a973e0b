package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account is the single source of truth for a player's credit balance.
// Balance is signed and may go negative: the ledger performs no overdraft
// checks anywhere.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Balance        int64
	PaidMatchCount int64
	Status         AccountStatus
	CreatedAt      time.Time
}
