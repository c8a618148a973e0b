package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstake/backend/internal/domain"
)

func accountRows(id, userID uuid.UUID, balance, paidCount int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "balance", "paid_match_count", "status", "created_at"}).
		AddRow(id.String(), userID.String(), balance, paidCount, "active", time.Now().UTC())
}

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

func TestAccountRepository_ApplyDelta(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	id := uuid.New()
	userID := uuid.New()

	t.Run("applies signed delta atomically", func(t *testing.T) {
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`UPDATE accounts SET balance = balance \+ \$2`).
			WithArgs(id, int64(-75)).
			WillReturnRows(accountRows(id, userID, -25, 0))

		account, err := repo.ApplyDelta(context.Background(), tx, id, -75)
		require.NoError(t, err)
		assert.Equal(t, int64(-25), account.Balance)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`UPDATE accounts SET balance = balance \+ \$2`).
			WithArgs(id, int64(100)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.ApplyDelta(context.Background(), tx, id, 100)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_IncrementPaidCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	id := uuid.New()
	userID := uuid.New()

	t.Run("increments counter", func(t *testing.T) {
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`UPDATE accounts SET paid_match_count = paid_match_count \+ 1`).
			WithArgs(id).
			WillReturnRows(accountRows(id, userID, 0, 3))

		account, err := repo.IncrementPaidCount(context.Background(), tx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(3), account.PaidMatchCount)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		tx := beginTx(t, db, mock)

		mock.ExpectQuery(`UPDATE accounts SET paid_match_count = paid_match_count \+ 1`).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.IncrementPaidCount(context.Background(), tx, id)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
