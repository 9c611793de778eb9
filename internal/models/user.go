package models

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserDB represents a user record in the database.
type UserDB struct {
	ID             int64     `json:"id" db:"id"`                           // Primary key
	Email          string    `json:"email" db:"email"`                     // Unique email, lookup key
	Username       string    `json:"username" db:"username"`               // Unique username, lookup key
	HashedPassword string    `json:"-" db:"hashed_password"`               // Bcrypt digest, never serialized
	Confirmed      bool      `json:"confirmed" db:"confirmed"`             // False until email verification
	AvatarURL      *string   `json:"avatar_url,omitempty" db:"avatar_url"` // Optional avatar URL
	Role           string    `json:"role" db:"role"`                       // admin or user, defaults to user
	CreatedAt      time.Time `json:"created_at" db:"created_at"`           // Creation timestamp
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`           // Last update timestamp
}

// UserCache is the projection of a user stored in Redis.
// It deliberately excludes the hashed password and role, so a
// cache-served user must never be used for credential or role checks.
type UserCache struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
	Confirmed bool    `json:"confirmed"`
}

// NewUserCache builds the cacheable projection of a user record.
func NewUserCache(u *UserDB) UserCache {
	return UserCache{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Confirmed: u.Confirmed,
	}
}

// User restores a partial user record from the cached projection.
// HashedPassword and Role are zero values.
func (c UserCache) User() *UserDB {
	return &UserDB{
		ID:        c.ID,
		Username:  c.Username,
		Email:     c.Email,
		AvatarURL: c.AvatarURL,
		Confirmed: c.Confirmed,
	}
}
