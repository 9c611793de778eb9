package handlers

import (
	"encoding/json"
	"net/http"
)

// NewPublicHandler returns an HTTP handler for the open landing route.
// @Summary Public landing route
// @Description Open route, no authentication required
// @Tags misc
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Greeting"
// @Router /public [get]
func NewPublicHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessageResponse{
			Message: "Welcome to the contacts API",
		})
	}
}

// NewAdminHandler returns an HTTP handler for the admin-only landing route.
// @Summary Admin landing route
// @Description Requires an authenticated admin user
// @Tags misc
// @Produce json
// @Success 200 {object} handlers.MessageResponse "Greeting"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ErrorResponse "Admin role required"
// @Router /admin [get]
// @Security BearerAuth
func NewAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MessageResponse{
			Message: "Welcome, admin",
		})
	}
}
