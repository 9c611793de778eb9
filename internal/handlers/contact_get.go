package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/models"
	"github.com/mkoval7/contacts-api/internal/services"
)

// ContactGetter defines the interface that the service must implement.
type ContactGetter interface {
	Get(ctx context.Context, id, ownerID int64) (*models.ContactDB, error)
}

// NewGetContactHandler returns an HTTP handler that serves a single owned
// contact. A contact owned by another user looks absent.
// @Summary Get a contact
// @Description Returns one of the authenticated user's contacts by id
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} handlers.ContactResponse "Contact"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Contact not found"
// @Router /contacts/{id} [get]
// @Security BearerAuth
func NewGetContactHandler(svc ContactGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Contact not found",
			})
			return
		}

		contact, err := svc.Get(r.Context(), id, user.ID)
		if err != nil {
			if errors.Is(err, services.ErrContactNotFound) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Contact not found",
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
		json.NewEncoder(w).Encode(NewContactResponse(contact))
	}
}
