package handlers

import (
	"time"

	"github.com/mkoval7/contacts-api/internal/models"
)

// UserResponse represents a user in API responses
// swagger:model UserResponse
type UserResponse struct {
	// User ID
	// default: 1
	ID int64 `json:"id"`

	// Username
	// default: john_doe
	Username string `json:"username"`

	// Email
	// default: john@example.com
	Email string `json:"email"`

	// Avatar URL
	AvatarURL *string `json:"avatar_url"`

	// Whether the email is confirmed
	// default: true
	Confirmed bool `json:"confirmed"`
}

// NewUserResponse builds the API projection of a user record.
func NewUserResponse(user *models.UserDB) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Confirmed: user.Confirmed,
	}
}

// ContactResponse represents a contact in API responses
// swagger:model ContactResponse
type ContactResponse struct {
	// Contact ID
	// default: 1
	ID int64 `json:"id"`

	// First name
	// default: John
	FirstName string `json:"first_name"`

	// Last name
	// default: Doe
	LastName string `json:"last_name"`

	// Email
	// default: john.doe@example.com
	Email string `json:"email"`

	// Phone
	// default: +123456789
	Phone string `json:"phone"`

	// Birthday in YYYY-MM-DD format
	// default: 1990-06-15
	Birthday string `json:"birthday"`

	// Free-form notes
	AdditionalData *string `json:"additional_data"`
}

// NewContactResponse builds the API projection of a contact record.
func NewContactResponse(contact *models.ContactDB) ContactResponse {
	return ContactResponse{
		ID:             contact.ID,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		Email:          contact.Email,
		Phone:          contact.Phone,
		Birthday:       contact.Birthday.Format(birthdayLayout),
		AdditionalData: contact.AdditionalData,
	}
}

// NewContactListResponse builds the API projection of a contact slice.
func NewContactListResponse(contacts []models.ContactDB) []ContactResponse {
	resp := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		resp = append(resp, NewContactResponse(&contacts[i]))
	}
	return resp
}

// birthdayLayout is the wire format for contact birthdays.
const birthdayLayout = "2006-01-02"

func parseBirthday(s string) (time.Time, error) {
	return time.Parse(birthdayLayout, s)
}

// MessageResponse represents a generic success message
// swagger:model MessageResponse
type MessageResponse struct {
	// Success message
	// default: OK
	Message string `json:"message"`
}

// ErrorResponse represents a generic error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}
