package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/services"
)

// PasswordResetRequester defines the interface for starting a password reset.
type PasswordResetRequester interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// PasswordResetConfirmer defines the interface for completing a password
// reset.
type PasswordResetConfirmer interface {
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// PasswordResetRequest represents the JSON body for requesting a reset
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`
}

// PasswordResetConfirmRequest represents the JSON body for confirming a reset
// swagger:model PasswordResetConfirmRequest
type PasswordResetConfirmRequest struct {
	// Reset token from the email link
	// required: true
	Token string `json:"token"`

	// New password
	// required: true
	// default: newsecret123
	NewPassword string `json:"new_password"`
}

// NewPasswordResetRequestHandler returns an HTTP handler that sends a reset
// email. Unknown emails get the same response as known ones; an unconfirmed
// account is rejected.
// @Summary Request a password reset
// @Description Sends a password reset email for a confirmed account
// @Tags auth
// @Accept json
// @Produce json
// @Param passwordResetRequest body handlers.PasswordResetRequest true "Account email"
// @Success 200 {object} handlers.MessageResponse "Reset email queued"
// @Failure 400 {object} handlers.ErrorResponse "Email not confirmed"
// @Failure 422 {object} handlers.ErrorResponse "Invalid request body"
// @Router /auth/password-reset/request [post]
func NewPasswordResetRequestHandler(svc PasswordResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			if errors.Is(err, services.ErrEmailNotConfirmed) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Email not confirmed",
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
		json.NewEncoder(w).Encode(MessageResponse{
			Message: "Check your email for the reset link",
		})
	}
}

// NewPasswordResetConfirmHandler returns an HTTP handler that sets a new
// password from a valid reset token.
// @Summary Confirm a password reset
// @Description Verifies the reset token and replaces the account password
// @Tags auth
// @Accept json
// @Produce json
// @Param passwordResetConfirmRequest body handlers.PasswordResetConfirmRequest true "Reset token and new password"
// @Success 200 {object} handlers.MessageResponse "Password updated"
// @Failure 400 {object} handlers.ErrorResponse "Invalid token or password too short"
// @Failure 404 {object} handlers.ErrorResponse "Account no longer exists"
// @Router /auth/password-reset/confirm [post]
func NewPasswordResetConfirmHandler(svc PasswordResetConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetConfirmRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		if len(req.NewPassword) < minPasswordLength {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Password must be at least 8 characters",
			})
			return
		}

		if err := svc.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidToken):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Invalid or expired reset token",
				})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Account not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessageResponse{
			Message: "Password updated",
		})
	}
}
