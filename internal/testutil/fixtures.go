package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/repository"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID uuid.UUID, balance int64) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Balance:   balance,
		Status:    domain.AccountStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := repository.NewAccountRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("seed test account for user %s: %v", userID, err)
	}
	return a
}

// SeedPlayer creates a user and its wagering account in one call.
func SeedPlayer(t *testing.T, db *sql.DB, name string, balance int64) *domain.Account {
	t.Helper()
	u := SeedTestUser(t, db, fmt.Sprintf("%s-%s@test.club", name, uuid.NewString()[:8]), name)
	return SeedTestAccount(t, db, u.ID, balance)
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func GetPaidMatchCount(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var count int64
	err := db.QueryRow(`SELECT paid_match_count FROM accounts WHERE id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("get paid match count %s: %v", accountID, err)
	}
	return count
}

func CountLedgerEntries(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for account %s: %v", accountID, err)
	}
	return count
}

// SumLedgerAmounts returns the signed sum of every ledger entry for the
// account. For an account seeded at balance zero this must always equal
// the current balance.
func SumLedgerAmounts(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var sum int64
	err := db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_id = $1`, accountID,
	).Scan(&sum)
	if err != nil {
		t.Fatalf("sum ledger amounts for account %s: %v", accountID, err)
	}
	return sum
}
