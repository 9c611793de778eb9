package models

import "time"

// Auth event types published to Kafka.
const (
	EventUserRegistered = "user_registered"
	EventEmailConfirmed = "email_confirmed"
	EventPasswordReset  = "password_reset"
)

// AuthEvent is a best-effort notification about an account lifecycle change.
type AuthEvent struct {
	Type       string    `json:"type"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
