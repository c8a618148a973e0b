package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/logging"
)

type ledgerService interface {
	ListTransactions(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, int, error)
	ListAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, int, error)
}

type TransactionHandler struct {
	ledger          ledgerService
	defaultPageSize int
}

func NewTransactionHandler(ledger ledgerService, defaultPageSize int) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, defaultPageSize: defaultPageSize}
}

type transactionDTO struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Amount      int64     `json:"amount"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type transactionPage struct {
	Entries []transactionDTO `json:"entries"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

func toTransactionPage(entries []domain.LedgerEntry, total, limit, offset int) transactionPage {
	dtos := make([]transactionDTO, len(entries))
	for i, e := range entries {
		dtos[i] = transactionDTO{
			ID:          e.ID,
			AccountID:   e.AccountID,
			Amount:      e.Amount,
			Kind:        string(e.Kind),
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}
	return transactionPage{Entries: dtos, Total: total, Limit: limit, Offset: offset}
}

func (h *TransactionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(r)

	entries, total, err := h.ledger.ListTransactions(r.Context(), limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionPage(entries, total, limit, offset))
}

func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit, offset := h.pagination(r)

	entries, total, err := h.ledger.ListAccountTransactions(r.Context(), id, limit, offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionPage(entries, total, limit, offset))
}

func (h *TransactionHandler) pagination(r *http.Request) (limit, offset int) {
	limit = h.defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
