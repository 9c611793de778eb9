package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/models"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// AvatarUploader stores the avatar image and returns its public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, username string, data []byte, contentType string) (string, error)
}

// AvatarSetter persists the avatar URL on the user record.
type AvatarSetter interface {
	UpdateAvatar(ctx context.Context, email, url string) (*models.UserDB, error)
}

// NewUpdateAvatarHandler returns an HTTP handler for avatar upload. The
// image arrives as a multipart form file and is stored in object storage.
// @Summary Update avatar
// @Description Uploads a new avatar image for the authenticated admin user
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 400 {object} handlers.ErrorResponse "Missing or oversized file"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Admin role required"
// @Router /users/avatar [patch]
// @Security BearerAuth
func NewUpdateAvatarHandler(uploader AvatarUploader, users AvatarSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Invalid multipart body",
			})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Avatar file is required",
			})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
		if err != nil {
			logger.Log.Errorw("failed to read avatar upload", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		url, err := uploader.Upload(r.Context(), user.Username, data, header.Header.Get("Content-Type"))
		if err != nil {
			logger.Log.Errorw("failed to store avatar", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		updated, err := users.UpdateAvatar(r.Context(), user.Email, url)
		if err != nil {
			logger.Log.Errorw("failed to persist avatar url", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(NewUserResponse(updated))
	}
}
