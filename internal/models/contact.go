package models

import "time"

// ContactDB represents a contact record in the database.
// Email and phone are unique across the whole table, not per owner.
type ContactDB struct {
	ID             int64     `json:"id" db:"id"`                           // Primary key
	FirstName      string    `json:"first_name" db:"first_name"`           // First name
	LastName       string    `json:"last_name" db:"last_name"`             // Last name
	Email          string    `json:"email" db:"email"`                     // Unique email
	Phone          string    `json:"phone" db:"phone"`                     // Unique phone
	Birthday       time.Time `json:"birthday" db:"birthday"`               // Calendar date
	AdditionalData *string   `json:"additional_data" db:"additional_data"` // Free-text notes
	UserID         int64     `json:"user_id" db:"user_id"`                 // Owning user
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ContactUpdate carries a partial contact update. Nil fields are left untouched.
type ContactUpdate struct {
	FirstName      *string    `json:"first_name"`
	LastName       *string    `json:"last_name"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	Birthday       *time.Time `json:"birthday"`
	AdditionalData *string    `json:"additional_data"`
}
