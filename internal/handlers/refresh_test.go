package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mkoval7/contacts-api/internal/services"
)

func TestRefreshHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(tok *MockRefreshTokener, svc *MockRefresher)
		expectedCode int
	}{
		{
			name: "success",
			mockSetup: func(tok *MockRefreshTokener, svc *MockRefresher) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("refresh-token", nil)
				svc.EXPECT().Refresh(gomock.Any(), "refresh-token").
					Return("new-access", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "missing token",
			mockSetup: func(tok *MockRefreshTokener, svc *MockRefresher) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			mockSetup: func(tok *MockRefreshTokener, svc *MockRefresher) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("bad-token", nil)
				svc.EXPECT().Refresh(gomock.Any(), "bad-token").
					Return("", services.ErrInvalidToken)
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockRefreshTokener(ctrl)
			mockSvc := NewMockRefresher(ctrl)
			tt.mockSetup(mockTokener, mockSvc)

			handler := NewRefreshHandler(mockTokener, mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedCode == http.StatusOK {
				var resp TokenResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "new-access", resp.AccessToken)
				assert.Empty(t, resp.RefreshToken)
			}
		})
	}
}
