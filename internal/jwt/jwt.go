package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Error variables
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token subject missing")
)

// JWT issues and verifies signed tokens for the four token classes:
// access, refresh, email confirmation and password reset. All classes
// share the signing secret and differ only in expiration.
type JWT struct {
	secretKey  string
	accessExp  time.Duration
	refreshExp time.Duration
	emailExp   time.Duration
	resetExp   time.Duration
}

// Opt configures a JWT instance.
type Opt func(*JWT)

// WithSecretKey sets the signing secret.
func WithSecretKey(secret string) Opt {
	return func(j *JWT) { j.secretKey = secret }
}

// WithAccessExpiration sets the access token lifetime.
func WithAccessExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.accessExp = d }
}

// WithRefreshExpiration sets the refresh token lifetime.
func WithRefreshExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.refreshExp = d }
}

// WithEmailExpiration sets the email confirmation token lifetime.
func WithEmailExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.emailExp = d }
}

// WithResetExpiration sets the password reset token lifetime.
func WithResetExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.resetExp = d }
}

// New creates a JWT instance with sane default lifetimes.
func New(opts ...Opt) *JWT {
	j := &JWT{
		accessExp:  15 * time.Minute,
		refreshExp: 3 * 24 * time.Hour,
		emailExp:   7 * 24 * time.Hour,
		resetExp:   time.Hour,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// generate signs a {sub, exp, iat} claim set for the given subject email.
func (j *JWT) generate(subject string, exp time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(exp).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GenerateAccessToken creates a short-lived access token for the subject email.
func (j *JWT) GenerateAccessToken(ctx context.Context, email string) (string, error) {
	return j.generate(email, j.accessExp)
}

// GenerateRefreshToken creates a refresh token for the subject email.
func (j *JWT) GenerateRefreshToken(ctx context.Context, email string) (string, error) {
	return j.generate(email, j.refreshExp)
}

// GenerateEmailToken creates an email confirmation token for the subject email.
func (j *JWT) GenerateEmailToken(ctx context.Context, email string) (string, error) {
	return j.generate(email, j.emailExp)
}

// GenerateResetToken creates a password reset token for the subject email.
func (j *JWT) GenerateResetToken(ctx context.Context, email string) (string, error) {
	return j.generate(email, j.resetExp)
}

// GetSubject parses the token string and returns the subject email.
// Fails on bad signature, expiry, or a missing subject claim.
func (j *JWT) GetSubject(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrMissingSubject
	}
	return subject, nil
}

// GetTokenFromRequest extracts the bearer token from the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
