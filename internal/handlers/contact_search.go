package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/models"
)

// ContactSearcher defines the interface that the service must implement.
type ContactSearcher interface {
	Search(ctx context.Context, ownerID int64, query string) ([]models.ContactDB, error)
}

// NewSearchContactsHandler returns an HTTP handler that searches the
// authenticated user's contacts by name, email or phone substring.
// @Summary Search contacts
// @Description Case-insensitive substring search over first name, last name, email and phone
// @Tags contacts
// @Produce json
// @Param query query string true "Search query"
// @Success 200 {array} handlers.ContactResponse "Matching contacts"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 422 {object} handlers.ErrorResponse "Missing query"
// @Router /contacts/search [get]
// @Security BearerAuth
func NewSearchContactsHandler(svc ContactSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		query := r.URL.Query().Get("query")
		if query == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Query parameter is required",
			})
			return
		}

		contacts, err := svc.Search(r.Context(), user.ID, query)
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
