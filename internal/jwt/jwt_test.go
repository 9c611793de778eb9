package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWT_GenerateAndGetSubject(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithAccessExpiration(time.Minute))
	ctx := context.Background()

	generators := map[string]func(context.Context, string) (string, error){
		"access":  j.GenerateAccessToken,
		"refresh": j.GenerateRefreshToken,
		"email":   j.GenerateEmailToken,
		"reset":   j.GenerateResetToken,
	}

	for name, generate := range generators {
		t.Run(name, func(t *testing.T) {
			token, err := generate(ctx, "alice@example.com")
			assert.NoError(t, err)
			assert.NotEmpty(t, token)

			subject, err := j.GetSubject(ctx, token)
			assert.NoError(t, err)
			assert.Equal(t, "alice@example.com", subject)
		})
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithAccessExpiration(-time.Minute)) // already expired
	ctx := context.Background()

	token, err := j.GenerateAccessToken(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := j.GetSubject(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, subject)
}

func TestJWT_InvalidToken(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	subject, err := j.GetSubject(ctx, "invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, subject)
}

func TestJWT_MissingSubject(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	token, err := j.generate("", time.Minute)
	assert.NoError(t, err)

	subject, err := j.GetSubject(ctx, token)
	assert.ErrorIs(t, err, ErrMissingSubject)
	assert.Empty(t, subject)
}

func TestJWT_WrongSecret(t *testing.T) {
	j1 := New(WithSecretKey("secret1"))
	j2 := New(WithSecretKey("secret2"))
	ctx := context.Background()

	token, err := j1.GenerateAccessToken(ctx, "alice@example.com")
	assert.NoError(t, err)

	subject, err := j2.GetSubject(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, subject)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New()
	ctx := context.Background()

	tests := []struct {
		name          string
		header        string
		expectedToken string
		expectError   bool
	}{
		{"ValidBearer", "Bearer mytoken123", "mytoken123", false},
		{"LowercaseBearer", "bearer mytoken123", "mytoken123", false},
		{"NoHeader", "", "", true},
		{"InvalidFormat", "Token mytoken123", "", true},
		{"TooManyParts", "Bearer a b c", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}
