package services

import (
	"context"
	"errors"
	"time"

	"github.com/mkoval7/contacts-api/internal/models"
)

// ErrContactNotFound is returned when a contact is absent or owned by
// another user; the two cases are indistinguishable.
var ErrContactNotFound = errors.New("contact not found")

// birthdayWindowDays is the size of the upcoming-birthdays window.
const birthdayWindowDays = 7

// ContactReader defines read operations for contacts.
type ContactReader interface {
	List(ctx context.Context, ownerID int64, offset, limit int) ([]models.ContactDB, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.ContactDB, error)
	Search(ctx context.Context, ownerID int64, query string) ([]models.ContactDB, error)
	GetAllByOwner(ctx context.Context, ownerID int64) ([]models.ContactDB, error)
}

// ContactWriter defines write operations for contacts.
type ContactWriter interface {
	Save(ctx context.Context, contact *models.ContactDB) (*models.ContactDB, error)
	Update(ctx context.Context, id, ownerID int64, upd models.ContactUpdate) (*models.ContactDB, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}

// ContactService handles contact operations scoped to the owning user.
type ContactService struct {
	reader ContactReader
	writer ContactWriter
	now    func() time.Time
}

// NewContactService creates a new ContactService instance.
func NewContactService(reader ContactReader, writer ContactWriter) *ContactService {
	return &ContactService{
		reader: reader,
		writer: writer,
		now:    time.Now,
	}
}

// List returns the owner's contacts with pagination.
func (svc *ContactService) List(ctx context.Context, ownerID int64, offset, limit int) ([]models.ContactDB, error) {
	return svc.reader.List(ctx, ownerID, offset, limit)
}

// Get returns the owned contact or ErrContactNotFound.
func (svc *ContactService) Get(ctx context.Context, id, ownerID int64) (*models.ContactDB, error) {
	contact, err := svc.reader.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

// Create inserts a contact bound to the owner.
func (svc *ContactService) Create(ctx context.Context, contact *models.ContactDB) (*models.ContactDB, error) {
	return svc.writer.Save(ctx, contact)
}

// Update applies a partial update to the owned contact.
func (svc *ContactService) Update(ctx context.Context, id, ownerID int64, upd models.ContactUpdate) (*models.ContactDB, error) {
	updated, err := svc.writer.Update(ctx, id, ownerID, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrContactNotFound
	}
	return updated, nil
}

// Delete removes the owned contact or returns ErrContactNotFound.
func (svc *ContactService) Delete(ctx context.Context, id, ownerID int64) error {
	deleted, err := svc.writer.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrContactNotFound
	}
	return nil
}

// Search returns the owner's contacts matching the query as a
// case-insensitive substring of first name, last name, email or phone.
func (svc *ContactService) Search(ctx context.Context, ownerID int64, query string) ([]models.ContactDB, error) {
	return svc.reader.Search(ctx, ownerID, query)
}

// UpcomingBirthdays returns the owner's contacts whose birthday, re-anchored
// to the current year, falls within the next week (inclusive).
func (svc *ContactService) UpcomingBirthdays(ctx context.Context, ownerID int64) ([]models.ContactDB, error) {
	contacts, err := svc.reader.GetAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	today := svc.now()
	upcoming := []models.ContactDB{}
	for _, contact := range contacts {
		if birthdayInWindow(contact.Birthday, today) {
			upcoming = append(upcoming, contact)
		}
	}
	return upcoming, nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// birthdayInWindow reports whether the birthday, re-anchored to today's year,
// falls within [today, today+7 days]. A Feb-29 birthday in a non-leap year is
// skipped: time.Date would normalize it to Mar 1, but the re-anchored date
// does not exist in that year.
func birthdayInWindow(birthday, today time.Time) bool {
	if birthday.Month() == time.February && birthday.Day() == 29 && !isLeapYear(today.Year()) {
		return false
	}

	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	anchored := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	end := todayDate.AddDate(0, 0, birthdayWindowDays)

	return !anchored.Before(todayDate) && !anchored.After(end)
}
