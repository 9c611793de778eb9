package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mkoval7/contacts-api/internal/services"
)

func TestPasswordResetRequestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockPasswordResetRequester)
		expectedCode int
	}{
		{
			name: "confirmed account",
			body: `{"email":"john@example.com"}`,
			mockSetup: func(m *MockPasswordResetRequester) {
				m.EXPECT().RequestPasswordReset(gomock.Any(), "john@example.com").
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			// Unknown emails are indistinguishable from known ones.
			name: "unknown email",
			body: `{"email":"ghost@example.com"}`,
			mockSetup: func(m *MockPasswordResetRequester) {
				m.EXPECT().RequestPasswordReset(gomock.Any(), "ghost@example.com").
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "unconfirmed account",
			body: `{"email":"bob@example.com"}`,
			mockSetup: func(m *MockPasswordResetRequester) {
				m.EXPECT().RequestPasswordReset(gomock.Any(), "bob@example.com").
					Return(services.ErrEmailNotConfirmed)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing email",
			body:         `{}`,
			expectedCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPasswordResetRequester(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewPasswordResetRequestHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/auth/password-reset/request", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestPasswordResetConfirmHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockPasswordResetConfirmer)
		expectedCode int
	}{
		{
			name: "success",
			body: `{"token":"reset-token","new_password":"newsecret123"}`,
			mockSetup: func(m *MockPasswordResetConfirmer) {
				m.EXPECT().ConfirmPasswordReset(gomock.Any(), "reset-token", "newsecret123").
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "invalid token",
			body: `{"token":"bad-token","new_password":"newsecret123"}`,
			mockSetup: func(m *MockPasswordResetConfirmer) {
				m.EXPECT().ConfirmPasswordReset(gomock.Any(), "bad-token", "newsecret123").
					Return(services.ErrInvalidToken)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "account no longer exists",
			body: `{"token":"reset-token","new_password":"newsecret123"}`,
			mockSetup: func(m *MockPasswordResetConfirmer) {
				m.EXPECT().ConfirmPasswordReset(gomock.Any(), "reset-token", "newsecret123").
					Return(services.ErrUserNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "password too short",
			body:         `{"token":"reset-token","new_password":"short"}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPasswordResetConfirmer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewPasswordResetConfirmHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/auth/password-reset/confirm", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
