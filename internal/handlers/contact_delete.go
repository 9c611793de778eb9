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
	"github.com/mkoval7/contacts-api/internal/services"
)

// ContactDeleter defines the interface that the service must implement.
type ContactDeleter interface {
	Delete(ctx context.Context, id, ownerID int64) error
}

// NewDeleteContactHandler returns an HTTP handler for deleting an owned
// contact.
// @Summary Delete a contact
// @Description Removes one of the authenticated user's contacts
// @Tags contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 204 "Contact deleted"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Contact not found"
// @Router /contacts/{id} [delete]
// @Security BearerAuth
func NewDeleteContactHandler(svc ContactDeleter) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), id, user.ID); err != nil {
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

		w.WriteHeader(http.StatusNoContent)
	}
}
