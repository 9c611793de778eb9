package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mkoval7/contacts-api/internal/models"
)

func newContactService(t *testing.T) (*ContactService, *MockContactReader, *MockContactWriter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reader := NewMockContactReader(ctrl)
	writer := NewMockContactWriter(ctrl)
	return NewContactService(reader, writer), reader, writer
}

func TestContactService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("owned contact", func(t *testing.T) {
		svc, reader, _ := newContactService(t)

		contact := &models.ContactDB{ID: 1, FirstName: "Alice", UserID: 10}
		reader.EXPECT().GetByID(gomock.Any(), int64(1), int64(10)).Return(contact, nil)

		got, err := svc.Get(ctx, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, contact, got)
	})

	t.Run("absent or foreign contact", func(t *testing.T) {
		svc, reader, _ := newContactService(t)

		reader.EXPECT().GetByID(gomock.Any(), int64(1), int64(11)).Return(nil, nil)

		got, err := svc.Get(ctx, 1, 11)
		assert.ErrorIs(t, err, ErrContactNotFound)
		assert.Nil(t, got)
	})
}

func TestContactService_Create(t *testing.T) {
	svc, _, writer := newContactService(t)
	ctx := context.Background()

	contact := &models.ContactDB{FirstName: "Bob", LastName: "Smith", Email: "bob@example.com", Phone: "+100200300", UserID: 10}
	saved := &models.ContactDB{ID: 2, FirstName: "Bob", LastName: "Smith", Email: "bob@example.com", Phone: "+100200300", UserID: 10}

	writer.EXPECT().Save(gomock.Any(), contact).Return(saved, nil)

	got, err := svc.Create(ctx, contact)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
}

func TestContactService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		svc, _, writer := newContactService(t)

		phone := "+700800900"
		upd := models.ContactUpdate{Phone: &phone}
		updated := &models.ContactDB{ID: 3, Phone: phone, UserID: 10}

		writer.EXPECT().Update(gomock.Any(), int64(3), int64(10), upd).Return(updated, nil)

		got, err := svc.Update(ctx, 3, 10, upd)
		assert.NoError(t, err)
		assert.Equal(t, phone, got.Phone)
	})

	t.Run("absent or foreign contact", func(t *testing.T) {
		svc, _, writer := newContactService(t)

		writer.EXPECT().Update(gomock.Any(), int64(3), int64(11), models.ContactUpdate{}).Return(nil, nil)

		got, err := svc.Update(ctx, 3, 11, models.ContactUpdate{})
		assert.ErrorIs(t, err, ErrContactNotFound)
		assert.Nil(t, got)
	})
}

func TestContactService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owned contact", func(t *testing.T) {
		svc, _, writer := newContactService(t)

		writer.EXPECT().Delete(gomock.Any(), int64(4), int64(10)).Return(true, nil)

		assert.NoError(t, svc.Delete(ctx, 4, 10))
	})

	t.Run("absent or foreign contact", func(t *testing.T) {
		svc, _, writer := newContactService(t)

		writer.EXPECT().Delete(gomock.Any(), int64(4), int64(11)).Return(false, nil)

		assert.ErrorIs(t, svc.Delete(ctx, 4, 11), ErrContactNotFound)
	})
}

func TestContactService_Search(t *testing.T) {
	svc, reader, _ := newContactService(t)
	ctx := context.Background()

	found := []models.ContactDB{{ID: 5, FirstName: "Carol", UserID: 10}}
	reader.EXPECT().Search(gomock.Any(), int64(10), "car").Return(found, nil)

	got, err := svc.Search(ctx, 10, "car")
	assert.NoError(t, err)
	assert.Equal(t, found, got)
}

func TestContactService_UpcomingBirthdays(t *testing.T) {
	ctx := context.Background()

	bday := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	contacts := []models.ContactDB{
		{ID: 1, FirstName: "Today", Birthday: bday(1990, time.June, 1), UserID: 10},
		{ID: 2, FirstName: "EndOfWindow", Birthday: bday(1985, time.June, 8), UserID: 10},
		{ID: 3, FirstName: "PastWindow", Birthday: bday(1985, time.June, 9), UserID: 10},
		{ID: 4, FirstName: "LastWeek", Birthday: bday(1992, time.May, 25), UserID: 10},
		{ID: 5, FirstName: "LeapDay", Birthday: bday(1996, time.February, 29), UserID: 10},
	}

	svc, reader, _ := newContactService(t)
	svc.now = func() time.Time {
		return time.Date(2023, time.June, 1, 15, 30, 0, 0, time.UTC)
	}

	reader.EXPECT().GetAllByOwner(gomock.Any(), int64(10)).Return(contacts, nil)

	got, err := svc.UpcomingBirthdays(ctx, 10)
	assert.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.FirstName)
	}
	assert.Equal(t, []string{"Today", "EndOfWindow"}, names)
}

func TestContactService_UpcomingBirthdays_Empty(t *testing.T) {
	svc, reader, _ := newContactService(t)
	ctx := context.Background()

	reader.EXPECT().GetAllByOwner(gomock.Any(), int64(10)).Return([]models.ContactDB{}, nil)

	got, err := svc.UpcomingBirthdays(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, []models.ContactDB{}, got)
}

func TestContactService_UpcomingBirthdays_ReaderError(t *testing.T) {
	svc, reader, _ := newContactService(t)
	ctx := context.Background()

	reader.EXPECT().GetAllByOwner(gomock.Any(), int64(10)).Return(nil, errors.New("db error"))

	got, err := svc.UpcomingBirthdays(ctx, 10)
	assert.EqualError(t, err, "db error")
	assert.Nil(t, got)
}

func TestBirthdayInWindow(t *testing.T) {
	date := func(year int, month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		birthday time.Time
		today    time.Time
		want     bool
	}{
		{name: "today", birthday: date(1990, time.June, 1), today: date(2023, time.June, 1), want: true},
		{name: "last day of window", birthday: date(1990, time.June, 8), today: date(2023, time.June, 1), want: true},
		{name: "one day past window", birthday: date(1990, time.June, 9), today: date(2023, time.June, 1), want: false},
		{name: "yesterday", birthday: date(1990, time.May, 31), today: date(2023, time.June, 1), want: false},
		{name: "month boundary", birthday: date(1990, time.July, 3), today: date(2023, time.June, 28), want: true},
		{name: "year boundary is not wrapped", birthday: date(1990, time.January, 2), today: date(2023, time.December, 28), want: false},
		{name: "leap day in a leap year", birthday: date(1996, time.February, 29), today: date(2024, time.February, 25), want: true},
		{name: "leap day in a non-leap year", birthday: date(1996, time.February, 29), today: date(2023, time.February, 25), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, birthdayInWindow(tt.birthday, tt.today))
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, isLeapYear(2024))
	assert.True(t, isLeapYear(2000))
	assert.False(t, isLeapYear(2023))
	assert.False(t, isLeapYear(1900))
}
