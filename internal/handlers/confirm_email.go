package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/services"
)

// EmailConfirmer defines the interface that the confirmation service must
// implement.
type EmailConfirmer interface {
	ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error)
}

// NewConfirmEmailHandler returns an HTTP handler for the email confirmation
// link. Confirming an already confirmed address is not an error.
// @Summary Confirm email address
// @Description Verifies the token from the confirmation link and marks the email confirmed
// @Tags auth
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} handlers.MessageResponse "Email confirmed"
// @Failure 422 {object} handlers.ErrorResponse "Verification error"
// @Router /auth/confirmed_email/{token} [get]
func NewConfirmEmailHandler(svc EmailConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		alreadyConfirmed, err := svc.ConfirmEmail(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Verification error",
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

		message := "Email confirmed"
		if alreadyConfirmed {
			message = "Your email is already confirmed"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessageResponse{Message: message})
	}
}
