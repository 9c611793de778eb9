package middlewares

import (
	"context"
	"net/http"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/models"
)

// Tokener defines the minimal token interface needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetSubject(ctx context.Context, tokenString string) (string, error)
}

// UserProvider resolves the token subject to a user record. Lookups go
// through the cache-aside user store.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// AuthMiddleware validates the bearer token and stores the resolved user in
// the request context. Requests without a valid token get 401.
func AuthMiddleware(tokener Tokener, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			email, err := tokener.GetSubject(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := users.GetByEmail(ctx, email)
			if err != nil {
				logger.Log.Errorw("failed to resolve token subject", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if user == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

// RoleReader serves the authoritative user record for role checks. The
// cached projection does not carry the role, so the gate re-reads the store.
type RoleReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// AdminMiddleware rejects requests from non-admin users with 403. Must run
// after AuthMiddleware.
func AdminMiddleware(roles RoleReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user := GetUserFromContext(ctx)
			if user == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			record, err := roles.GetByEmail(ctx, user.Email)
			if err != nil {
				logger.Log.Errorw("failed to read user role", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if record == nil || record.Role != models.RoleAdmin {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the authenticated user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if not present.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
