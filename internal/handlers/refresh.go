package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/services"
)

// RefreshTokener extracts the bearer token carrying the refresh claim.
type RefreshTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Refresher defines the interface that the refresh service must implement.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// NewRefreshHandler returns an HTTP handler that exchanges a refresh token,
// presented as the bearer token, for a new access token.
// @Summary Refresh access token
// @Description Issues a new access token from a valid refresh token. The refresh token is not rotated.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.TokenResponse "New access token"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
// @Security BearerAuth
func NewRefreshHandler(tokener RefreshTokener, svc Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid refresh token",
			})
			return
		}

		access, err := svc.Refresh(ctx, tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Invalid refresh token",
				})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: access,
			TokenType:   "bearer",
		})
	}
}
