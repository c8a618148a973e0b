package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstake/backend/internal/domain"
	"github.com/clubstake/backend/internal/service/match"
)

type stubMatchService struct {
	match *domain.Match
	err   error
}

func (s *stubMatchService) CreateMatch(ctx context.Context, name string, teamA, teamB []match.RosterInput) (*domain.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) GetMatch(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) ListMatches(ctx context.Context) ([]domain.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Match{*s.match}, nil
}

func (s *stubMatchService) Settle(ctx context.Context, matchID uuid.UUID, winner domain.Team) (*domain.Match, error) {
	return s.match, s.err
}

func (s *stubMatchService) RecordPayment(ctx context.Context, matchID, accountID uuid.UUID) (*domain.Match, error) {
	return s.match, s.err
}

func settledMatch() *domain.Match {
	winner := domain.TeamA
	now := time.Now().UTC()
	return &domain.Match{
		ID:   uuid.New(),
		Name: "Friday night",
		TeamA: []domain.RosterEntry{
			{AccountID: uuid.New(), DisplayName: "p1", Stake: 100},
		},
		TeamB: []domain.RosterEntry{
			{AccountID: uuid.New(), DisplayName: "p2", Stake: 100},
		},
		Status:      domain.MatchStatusSettled,
		WinningTeam: &winner,
		CreatedAt:   now,
		SettledAt:   &now,
	}
}

func newMatchRouter(svc matchService) http.Handler {
	h := NewMatchHandler(svc)
	r := chi.NewRouter()
	r.Post("/matches/{id}/settle", h.Settle)
	r.Post("/matches/{id}/payments", h.Pay)
	r.Get("/matches/{id}", h.Get)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestMatchHandler_Settle(t *testing.T) {
	m := settledMatch()

	tests := []struct {
		name       string
		path       string
		body       string
		svc        *stubMatchService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			path:       fmt.Sprintf("/matches/%s/settle", m.ID),
			body:       `{"winning_team": "A"}`,
			svc:        &stubMatchService{match: m},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed match id",
			path:       "/matches/not-a-uuid/settle",
			body:       `{"winning_team": "A"}`,
			svc:        &stubMatchService{},
			wantStatus: http.StatusNotFound,
			wantCode:   "RESOURCE_NOT_FOUND",
		},
		{
			name:       "winning team validation",
			path:       fmt.Sprintf("/matches/%s/settle", m.ID),
			body:       `{"winning_team": "C"}`,
			svc:        &stubMatchService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "already settled",
			path:       fmt.Sprintf("/matches/%s/settle", m.ID),
			body:       `{"winning_team": "A"}`,
			svc:        &stubMatchService{err: fmt.Errorf("Settle: %w", domain.ErrMatchSettled)},
			wantStatus: http.StatusConflict,
			wantCode:   "MATCH_ALREADY_SETTLED",
		},
		{
			name:       "match not found",
			path:       fmt.Sprintf("/matches/%s/settle", m.ID),
			body:       `{"winning_team": "B"}`,
			svc:        &stubMatchService{err: fmt.Errorf("Settle: %w", domain.ErrMatchNotFound)},
			wantStatus: http.StatusNotFound,
			wantCode:   "MATCH_NOT_FOUND",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newMatchRouter(tc.svc)
			rec, resp := doRequest(t, router, http.MethodPost, tc.path, tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantCode == "" {
				assert.True(t, resp.Success)
				require.Nil(t, resp.Error)
			} else {
				assert.False(t, resp.Success)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestMatchHandler_Settle_ResponseBody(t *testing.T) {
	m := settledMatch()
	router := newMatchRouter(&stubMatchService{match: m})

	rec, resp := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/matches/%s/settle", m.ID), `{"winning_team": "A"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var dto matchDTO
	require.NoError(t, json.Unmarshal(data, &dto))
	assert.Equal(t, m.ID, dto.ID)
	assert.Equal(t, string(domain.MatchStatusSettled), dto.Status)
	require.NotNil(t, dto.WinningTeam)
	assert.Equal(t, "A", *dto.WinningTeam)
	require.Len(t, dto.TeamA, 1)
	assert.Equal(t, int64(100), dto.TeamA[0].Stake)
}

func TestMatchHandler_Pay(t *testing.T) {
	m := settledMatch()

	tests := []struct {
		name       string
		body       string
		svc        *stubMatchService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       fmt.Sprintf(`{"account_id": %q}`, m.TeamA[0].AccountID),
			svc:        &stubMatchService{match: m},
			wantStatus: http.StatusOK,
		},
		{
			name:       "account id validation",
			body:       `{"account_id": "nope"}`,
			svc:        &stubMatchService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "player not in match",
			body:       fmt.Sprintf(`{"account_id": %q}`, uuid.New()),
			svc:        &stubMatchService{err: fmt.Errorf("RecordPayment: %w", domain.ErrPlayerNotInMatch)},
			wantStatus: http.StatusNotFound,
			wantCode:   "PLAYER_NOT_IN_MATCH",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newMatchRouter(tc.svc)
			rec, resp := doRequest(t, router, http.MethodPost,
				fmt.Sprintf("/matches/%s/payments", m.ID), tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
			}
		})
	}
}
