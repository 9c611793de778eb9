package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/models"
	"github.com/mkoval7/contacts-api/internal/password"
)

// Error variables
var (
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrUsernameExists     = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailNotConfirmed  = errors.New("email address not confirmed")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserStore is the cache-aside user store consumed by auth flows.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	Create(ctx context.Context, email, username, hashedPassword string) (*models.UserDB, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, hashedPassword string) error
}

// CredentialReader serves authoritative user records for credential checks.
// Cached projections lack the password digest, so login must not use them.
type CredentialReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// TokenService issues and verifies the four token classes.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, email string) (string, error)
	GenerateRefreshToken(ctx context.Context, email string) (string, error)
	GenerateEmailToken(ctx context.Context, email string) (string, error)
	GenerateResetToken(ctx context.Context, email string) (string, error)
	GetSubject(ctx context.Context, tokenString string) (string, error)
}

// EmailSender is the external mail collaborator.
type EmailSender interface {
	SendConfirmation(ctx context.Context, to, username, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuthService handles registration, login, token refresh, email confirmation
// and password reset.
type AuthService struct {
	users       UserStore
	credentials CredentialReader
	tokens      TokenService
	mail        EmailSender
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users UserStore, credentials CredentialReader, tokens TokenService, mail EmailSender, kafkaWriter KafkaWriter) *AuthService {
	return &AuthService{
		users:       users,
		credentials: credentials,
		tokens:      tokens,
		mail:        mail,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes an account lifecycle event to Kafka, best effort.
func (svc *AuthService) publishEvent(ctx context.Context, eventType, email string) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event", eventType)
		return
	}

	event := models.AuthEvent{Type: eventType, Email: email, OccurredAt: time.Now()}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "event", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(email),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "event", eventType, "error", err)
	} else {
		logger.Log.Infow("auth event published", "event", eventType, "email", email)
	}
}

// sendConfirmationMail hands the confirmation email to the mail collaborator.
// Delivery happens in the background; failures are logged, never surfaced to
// the triggering request.
func (svc *AuthService) sendConfirmationMail(ctx context.Context, email, username string) {
	token, err := svc.tokens.GenerateEmailToken(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to generate email token", "email", email, "err", err)
		return
	}
	if err := svc.mail.SendConfirmation(ctx, email, username, token); err != nil {
		logger.Log.Errorw("failed to send confirmation email", "email", email, "err", err)
	}
}

// Register creates a new unconfirmed user and triggers the confirmation email.
func (svc *AuthService) Register(ctx context.Context, email, username, pwd string) (*models.UserDB, error) {
	existing, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	existing, err = svc.users.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check username exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	hashed, err := password.Hash(pwd)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.users.Create(ctx, email, username, hashed)
	if err != nil {
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, err
	}

	svc.sendConfirmationMail(ctx, user.Email, user.Username)
	svc.publishEvent(ctx, models.EventUserRegistered, user.Email)

	return user, nil
}

// Login authenticates a user and returns an access and refresh token pair.
// Credentials are checked against the backing store, never the cache.
func (svc *AuthService) Login(ctx context.Context, username, pwd string) (access, refresh string, err error) {
	user, err := svc.credentials.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", "", err
	}
	if user == nil || !password.Verify(pwd, user.HashedPassword) {
		return "", "", ErrInvalidCredentials
	}
	if !user.Confirmed {
		return "", "", ErrEmailNotConfirmed
	}

	access, err = svc.tokens.GenerateAccessToken(ctx, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return "", "", err
	}
	refresh, err = svc.tokens.GenerateRefreshToken(ctx, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "err", err)
		return "", "", err
	}

	return access, refresh, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is neither rotated nor extended.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	email, err := svc.tokens.GetSubject(ctx, refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	return svc.tokens.GenerateAccessToken(ctx, email)
}

// ConfirmEmail verifies the confirmation token and flips the confirmed flag.
// Reports whether the email was already confirmed; confirming twice does not
// re-mutate the record.
func (svc *AuthService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	email, err := svc.tokens.GetSubject(ctx, token)
	if err != nil {
		return false, ErrInvalidToken
	}

	user, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	if user.Confirmed {
		return true, nil
	}

	if err := svc.users.ConfirmEmail(ctx, email); err != nil {
		return false, err
	}

	svc.publishEvent(ctx, models.EventEmailConfirmed, email)
	return false, nil
}

// RequestEmail re-sends the confirmation email for an unconfirmed account.
// Reports whether the email was already confirmed. An unknown email is not
// an error.
func (svc *AuthService) RequestEmail(ctx context.Context, email string) (alreadyConfirmed bool, err error) {
	user, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if user.Confirmed {
		return true, nil
	}

	svc.sendConfirmationMail(ctx, user.Email, user.Username)
	return false, nil
}

// RequestPasswordReset sends a reset email when the account exists and is
// confirmed. An unknown email is silently accepted to avoid account
// enumeration; an existing but unconfirmed account is rejected.
func (svc *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := svc.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	if !user.Confirmed {
		return ErrEmailNotConfirmed
	}

	token, err := svc.tokens.GenerateResetToken(ctx, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate reset token", "email", user.Email, "err", err)
		return err
	}
	if err := svc.mail.SendPasswordReset(ctx, user.Email, token); err != nil {
		logger.Log.Errorw("failed to send reset email", "email", user.Email, "err", err)
	}

	return nil
}

// ConfirmPasswordReset verifies the reset token and sets the new password.
func (svc *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	email, err := svc.tokens.GetSubject(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := svc.credentials.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.users.UpdatePassword(ctx, email, hashed); err != nil {
		return err
	}

	svc.publishEvent(ctx, models.EventPasswordReset, email)
	return nil
}
