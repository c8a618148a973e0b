package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/auth"
	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/logging"
)

type accountService interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetAccountForUser(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	Adjust(ctx context.Context, accountID uuid.UUID, amount int64, description string) (*domain.Account, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountDTO struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Balance        int64     `json:"balance"`
	PaidMatchCount int64     `json:"paid_match_count"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:             a.ID,
		UserID:         a.UserID,
		Balance:        a.Balance,
		PaidMatchCount: a.PaidMatchCount,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
	}
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

// GetOwn resolves the caller's JWT identity to their wagering account.
func (h *AccountHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrInvalidToken, nil)
		return
	}

	account, err := h.accounts.GetAccountForUser(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

type adjustRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (r adjustRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount == 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must not be zero"})
	}
	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	return errs
}

func (h *AccountHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.Adjust(r.Context(), id, req.Amount, req.Description)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to adjust balance", "error", err, "account_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func idFromPath(r *http.Request, param string) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}
