package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound    = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrMatchNotFound      = &AppError{http.StatusNotFound, "MATCH_NOT_FOUND", "Match not found"}
	ErrPlayerNotInMatch   = &AppError{http.StatusNotFound, "PLAYER_NOT_IN_MATCH", "Player is not on either roster of this match"}
	ErrMatchSettled       = &AppError{http.StatusConflict, "MATCH_ALREADY_SETTLED", "Match has already been settled"}
	ErrInvalidWinningTeam = &AppError{http.StatusBadRequest, "INVALID_WINNING_TEAM", "Winning team must be A or B"}
	ErrInvalidStake       = &AppError{http.StatusBadRequest, "INVALID_STAKE", "Stake must be greater than zero"}
	ErrInvalidAmount      = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must not be zero"}
)
