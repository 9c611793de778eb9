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
	"github.com/mkoval7/contacts-api/internal/repositories"
	"github.com/mkoval7/contacts-api/internal/services"
)

// ContactUpdater defines the interface that the service must implement.
type ContactUpdater interface {
	Update(ctx context.Context, id, ownerID int64, upd models.ContactUpdate) (*models.ContactDB, error)
}

// ContactUpdateRequest represents the JSON body for a partial contact
// update. Absent fields are left unchanged.
// swagger:model ContactUpdateRequest
type ContactUpdateRequest struct {
	// First name
	FirstName *string `json:"first_name"`

	// Last name
	LastName *string `json:"last_name"`

	// Email
	Email *string `json:"email"`

	// Phone
	Phone *string `json:"phone"`

	// Birthday in YYYY-MM-DD format
	Birthday *string `json:"birthday"`

	// Free-form notes
	AdditionalData *string `json:"additional_data"`
}

// NewUpdateContactHandler returns an HTTP handler for partially updating an
// owned contact.
// @Summary Update a contact
// @Description Applies a partial update to one of the authenticated user's contacts
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path int true "Contact ID"
// @Param contactUpdateRequest body handlers.ContactUpdateRequest true "Fields to change"
// @Success 200 {object} handlers.ContactResponse "Updated contact"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Contact not found"
// @Failure 409 {object} handlers.ErrorResponse "Email or phone already taken"
// @Failure 422 {object} handlers.ErrorResponse "Invalid request body"
// @Router /contacts/{id} [put]
// @Security BearerAuth
func NewUpdateContactHandler(svc ContactUpdater) http.HandlerFunc {
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

		var req ContactUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		upd := models.ContactUpdate{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			Phone:          req.Phone,
			AdditionalData: req.AdditionalData,
		}
		if req.Birthday != nil {
			birthday, err := parseBirthday(*req.Birthday)
			if err != nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Birthday must be in YYYY-MM-DD format",
				})
				return
			}
			upd.Birthday = &birthday
		}

		updated, err := svc.Update(r.Context(), id, user.ID, upd)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrContactNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Contact not found",
				})
			case errors.Is(err, repositories.ErrConflict):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Contact with this email or phone already exists",
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
		json.NewEncoder(w).Encode(NewContactResponse(updated))
	}
}
