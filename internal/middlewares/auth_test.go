package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mkoval7/contacts-api/internal/models"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 1, Email: "alice@example.com", Username: "alice"}

	tests := []struct {
		name             string
		mockSetup        func(tok *MockTokener, users *MockUserProvider)
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name: "NoToken",
			mockSetup: func(tok *MockTokener, users *MockUserProvider) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "InvalidToken",
			mockSetup: func(tok *MockTokener, users *MockUserProvider) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				tok.EXPECT().GetSubject(gomock.Any(), "sometoken").
					Return("", errors.New("invalid token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "SubjectNoLongerExists",
			mockSetup: func(tok *MockTokener, users *MockUserProvider) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tok.EXPECT().GetSubject(gomock.Any(), "validtoken").
					Return("ghost@example.com", nil)
				users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").
					Return(nil, nil)
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "ValidToken",
			mockSetup: func(tok *MockTokener, users *MockUserProvider) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tok.EXPECT().GetSubject(gomock.Any(), "validtoken").
					Return("alice@example.com", nil)
				users.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").
					Return(user, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockUsers := NewMockUserProvider(ctrl)
			tt.mockSetup(mockTokener, mockUsers)

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, user, GetUserFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(mockTokener, mockUsers)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := &models.UserDB{ID: 1, Email: "root@example.com", Role: models.RoleAdmin}
	regular := &models.UserDB{ID: 2, Email: "alice@example.com", Role: models.RoleUser}

	tests := []struct {
		name             string
		ctxUser          *models.UserDB
		mockSetup        func(roles *MockRoleReader)
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name:             "NoUserInContext",
			ctxUser:          nil,
			mockSetup:        func(roles *MockRoleReader) {},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name:    "RegularUser",
			ctxUser: regular,
			mockSetup: func(roles *MockRoleReader) {
				roles.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").
					Return(regular, nil)
			},
			expectedStatus:   http.StatusForbidden,
			expectNextCalled: false,
		},
		{
			name:    "Admin",
			ctxUser: admin,
			mockSetup: func(roles *MockRoleReader) {
				roles.EXPECT().GetByEmail(gomock.Any(), "root@example.com").
					Return(admin, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
		{
			name:    "RoleLookupFails",
			ctxUser: admin,
			mockSetup: func(roles *MockRoleReader) {
				roles.EXPECT().GetByEmail(gomock.Any(), "root@example.com").
					Return(nil, errors.New("db error"))
			},
			expectedStatus:   http.StatusInternalServerError,
			expectNextCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRoles := NewMockRoleReader(ctrl)
			tt.mockSetup(mockRoles)

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := AdminMiddleware(mockRoles)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.ctxUser != nil {
				req = req.WithContext(SetUserToContext(req.Context(), tt.ctxUser))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}
