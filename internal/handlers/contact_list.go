package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/middlewares"
	"github.com/mkoval7/contacts-api/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ContactLister defines the interface that the service must implement.
type ContactLister interface {
	List(ctx context.Context, ownerID int64, offset, limit int) ([]models.ContactDB, error)
}

// NewListContactsHandler returns an HTTP handler that lists the
// authenticated user's contacts with offset/limit pagination.
// @Summary List contacts
// @Description Returns the authenticated user's contacts
// @Tags contacts
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} handlers.ContactResponse "Contacts"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /contacts [get]
// @Security BearerAuth
func NewListContactsHandler(svc ContactLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		offset := parseQueryInt(r, "offset", 0)
		limit := parseQueryInt(r, "limit", defaultListLimit)
		if limit > maxListLimit {
			limit = maxListLimit
		}

		contacts, err := svc.List(r.Context(), user.ID, offset, limit)
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

func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}
