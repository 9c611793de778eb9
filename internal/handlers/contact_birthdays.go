package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/models"
)

// BirthdayLister defines the interface that the service must implement.
type BirthdayLister interface {
	UpcomingBirthdays(ctx context.Context, ownerID int64) ([]models.ContactDB, error)
}

// NewUpcomingBirthdaysHandler returns an HTTP handler that lists the
// authenticated user's contacts with a birthday in the next week.
// @Summary Upcoming birthdays
// @Description Returns contacts whose birthday falls within the next 7 days, inclusive
// @Tags contacts
// @Produce json
// @Success 200 {array} handlers.ContactResponse "Contacts with upcoming birthdays"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /contacts/birthdays [get]
// @Security BearerAuth
func NewUpcomingBirthdaysHandler(svc BirthdayLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		contacts, err := svc.UpcomingBirthdays(r.Context(), user.ID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(NewContactListResponse(contacts))
	}
}
