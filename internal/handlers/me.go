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
	"github.com/mkoval7/contacts-api/internal/services"
)

// UserUpdater defines the interface that the profile update service must
// implement.
type UserUpdater interface {
	Update(ctx context.Context, id int64, username, email, avatarURL *string) (*models.UserDB, error)
}

// UpdateMeRequest represents the JSON body for a profile update. Absent
// fields are left unchanged.
// swagger:model UpdateMeRequest
type UpdateMeRequest struct {
	// Username
	// default: john_doe
	Username *string `json:"username"`

	// Email
	// default: john@example.com
	Email *string `json:"email"`
}

// NewGetMeHandler returns an HTTP handler that serves the authenticated
// user's profile.
// @Summary Get current user
// @Description Returns the profile of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UserResponse "Current user"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 429 {object} handlers.ErrorResponse "Too many requests"
// @Router /users/me [get]
// @Security BearerAuth
func NewGetMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(NewUserResponse(user))
	}
}

// NewUpdateMeHandler returns an HTTP handler for updating the authenticated
// user's profile.
// @Summary Update current user
// @Description Applies a partial update to the authenticated user's username and email
// @Tags users
// @Accept json
// @Produce json
// @Param updateMeRequest body handlers.UpdateMeRequest true "Profile fields to change"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 409 {object} handlers.ErrorResponse "Username or email already taken"
// @Router /users/me [put]
// @Security BearerAuth
func NewUpdateMeHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		var req UpdateMeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		updated, err := svc.Update(r.Context(), user.ID, req.Username, req.Email, nil)
		if err != nil {
			switch {
			case errors.Is(err, repositories.ErrConflict):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Username or email already taken",
				})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "User not found",
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
		json.NewEncoder(w).Encode(NewUserResponse(updated))
	}
}
