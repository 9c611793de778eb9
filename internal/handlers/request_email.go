package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
)

// EmailRequester defines the interface that the re-send service must
// implement.
type EmailRequester interface {
	RequestEmail(ctx context.Context, email string) (alreadyConfirmed bool, err error)
}

// RequestEmailRequest represents the JSON body for re-sending the
// confirmation email
// swagger:model RequestEmailRequest
type RequestEmailRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`
}

// NewRequestEmailHandler returns an HTTP handler that re-sends the
// confirmation email. The response does not reveal whether the account
// exists.
// @Summary Re-send confirmation email
// @Description Sends a new confirmation email for an unconfirmed account
// @Tags auth
// @Accept json
// @Produce json
// @Param requestEmailRequest body handlers.RequestEmailRequest true "Account email"
// @Success 200 {object} handlers.MessageResponse "Confirmation email queued"
// @Failure 422 {object} handlers.ErrorResponse "Invalid request body"
// @Router /auth/request_email [post]
func NewRequestEmailHandler(svc EmailRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RequestEmailRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		alreadyConfirmed, err := svc.RequestEmail(r.Context(), req.Email)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		message := "Check your email for confirmation"
		if alreadyConfirmed {
			message = "Your email is already confirmed"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessageResponse{Message: message})
	}
}
