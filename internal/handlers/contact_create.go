package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/models"
	"github.com/mkoval7/contacts-api/internal/repositories"
)

// ContactCreator defines the interface that the service must implement.
type ContactCreator interface {
	Create(ctx context.Context, contact *models.ContactDB) (*models.ContactDB, error)
}

// ContactRequest represents the JSON body for creating a contact
// swagger:model ContactRequest
type ContactRequest struct {
	// First name
	// required: true
	// default: John
	FirstName string `json:"first_name"`

	// Last name
	// required: true
	// default: Doe
	LastName string `json:"last_name"`

	// Email
	// required: true
	// default: john.doe@example.com
	Email string `json:"email"`

	// Phone
	// required: true
	// default: +123456789
	Phone string `json:"phone"`

	// Birthday in YYYY-MM-DD format
	// required: true
	// default: 1990-06-15
	Birthday string `json:"birthday"`

	// Free-form notes
	AdditionalData *string `json:"additional_data"`
}

// NewCreateContactHandler returns an HTTP handler for creating a contact
// owned by the authenticated user.
// @Summary Create a contact
// @Description Creates a new contact in the authenticated user's list
// @Tags contacts
// @Accept json
// @Produce json
// @Param contactRequest body handlers.ContactRequest true "Contact to create"
// @Success 201 {object} handlers.ContactResponse "Created contact"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 409 {object} handlers.ErrorResponse "Email or phone already taken"
// @Failure 422 {object} handlers.ErrorResponse "Invalid request body"
// @Router /contacts [post]
// @Security BearerAuth
func NewCreateContactHandler(svc ContactCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		var req ContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "First name, last name, email and phone are required",
			})
			return
		}

		birthday, err := parseBirthday(req.Birthday)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Birthday must be in YYYY-MM-DD format",
			})
			return
		}

		contact := &models.ContactDB{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			Phone:          req.Phone,
			Birthday:       birthday,
			AdditionalData: req.AdditionalData,
			UserID:         user.ID,
		}

		created, err := svc.Create(r.Context(), contact)
		if err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Contact with this email or phone already exists",
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
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(NewContactResponse(created))
	}
}
