package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntryKind string

const (
	EntryKindWin         EntryKind = "win"
	EntryKindLoss        EntryKind = "loss"
	EntryKindAdminAdjust EntryKind = "admin_adjust"
)

// LedgerEntry is an immutable record of one balance-affecting event.
// For any account, its balance always equals the sum of its entry amounts.
type LedgerEntry struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Amount      int64
	Kind        EntryKind
	Description string
	CreatedAt   time.Time
}
