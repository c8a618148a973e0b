package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/logging"
	"github.com/clubstake/backend/internal/service/match"
)

type matchService interface {
	CreateMatch(ctx context.Context, name string, teamA, teamB []match.RosterInput) (*domain.Match, error)
	GetMatch(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	ListMatches(ctx context.Context) ([]domain.Match, error)
	Settle(ctx context.Context, matchID uuid.UUID, winner domain.Team) (*domain.Match, error)
	RecordPayment(ctx context.Context, matchID, accountID uuid.UUID) (*domain.Match, error)
}

type MatchHandler struct {
	matches matchService
}

func NewMatchHandler(matches matchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

type rosterEntryRequest struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Stake       int64  `json:"stake"`
}

type createMatchRequest struct {
	Name  string               `json:"name"`
	TeamA []rosterEntryRequest `json:"team_a"`
	TeamB []rosterEntryRequest `json:"team_b"`
}

func (r createMatchRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	errs = append(errs, validateRosterRequest("team_a", r.TeamA)...)
	errs = append(errs, validateRosterRequest("team_b", r.TeamB)...)
	return errs
}

func validateRosterRequest(field string, entries []rosterEntryRequest) []FieldError {
	var errs []FieldError
	for _, e := range entries {
		if _, err := uuid.Parse(e.AccountID); err != nil {
			errs = append(errs, FieldError{Field: field, Message: "account_id must be a valid UUID"})
		}
		if e.Stake <= 0 {
			errs = append(errs, FieldError{Field: field, Message: "stake must be greater than 0"})
		}
	}
	return errs
}

func toRosterInputs(entries []rosterEntryRequest) []match.RosterInput {
	inputs := make([]match.RosterInput, len(entries))
	for i, e := range entries {
		inputs[i] = match.RosterInput{
			AccountID:   uuid.MustParse(e.AccountID),
			DisplayName: e.DisplayName,
			Stake:       e.Stake,
		}
	}
	return inputs
}

type rosterEntryDTO struct {
	AccountID   uuid.UUID `json:"account_id"`
	DisplayName string    `json:"display_name"`
	Stake       int64     `json:"stake"`
	Paid        bool      `json:"paid"`
}

type matchDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	TeamA       []rosterEntryDTO `json:"team_a"`
	TeamB       []rosterEntryDTO `json:"team_b"`
	Status      string           `json:"status"`
	WinningTeam *string          `json:"winning_team"`
	CreatedAt   time.Time        `json:"created_at"`
	SettledAt   *time.Time       `json:"settled_at,omitempty"`
}

func toMatchDTO(m *domain.Match) matchDTO {
	dto := matchDTO{
		ID:        m.ID,
		Name:      m.Name,
		TeamA:     toRosterDTOs(m.TeamA),
		TeamB:     toRosterDTOs(m.TeamB),
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		SettledAt: m.SettledAt,
	}
	if m.WinningTeam != nil {
		team := string(*m.WinningTeam)
		dto.WinningTeam = &team
	}
	return dto
}

func toRosterDTOs(entries []domain.RosterEntry) []rosterEntryDTO {
	dtos := make([]rosterEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = rosterEntryDTO{
			AccountID:   e.AccountID,
			DisplayName: e.DisplayName,
			Stake:       e.Stake,
			Paid:        e.Paid,
		}
	}
	return dtos
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	m, err := h.matches.CreateMatch(r.Context(), req.Name, toRosterInputs(req.TeamA), toRosterInputs(req.TeamB))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create match", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toMatchDTO(m))
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.ListMatches(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list matches", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]matchDTO, len(matches))
	for i := range matches {
		dtos[i] = toMatchDTO(&matches[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	m, err := h.matches.GetMatch(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toMatchDTO(m))
}

type settleRequest struct {
	WinningTeam string `json:"winning_team"`
}

func (r settleRequest) Validate() []FieldError {
	var errs []FieldError
	if !domain.Team(r.WinningTeam).IsValid() {
		errs = append(errs, FieldError{Field: "winning_team", Message: "must be A or B"})
	}
	return errs
}

func (h *MatchHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	m, err := h.matches.Settle(r.Context(), id, domain.Team(req.WinningTeam))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to settle match", "error", err, "match_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toMatchDTO(m))
}

type payPlayerRequest struct {
	AccountID string `json:"account_id"`
}

func (r payPlayerRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a valid UUID"})
	}
	return errs
}

func (h *MatchHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req payPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	m, err := h.matches.RecordPayment(r.Context(), id, uuid.MustParse(req.AccountID))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record payment", "error", err, "match_id", id)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toMatchDTO(m))
}
