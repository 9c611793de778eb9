package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mkoval7/contacts-api/internal/models"
	"github.com/mkoval7/contacts-api/internal/services"
)

func strPtr(s string) *string { return &s }

func newUserService(t *testing.T) (*services.UserService, *services.MockUserReader, *services.MockUserWriter, *services.MockUserCacher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reader := services.NewMockUserReader(ctrl)
	writer := services.NewMockUserWriter(ctrl)
	cache := services.NewMockUserCacher(ctrl)
	return services.NewUserService(reader, writer, cache), reader, writer, cache
}

func TestUserService_GetByID_CacheHit(t *testing.T) {
	svc, _, _, cache := newUserService(t)
	ctx := context.Background()

	cached := &models.UserCache{ID: 1, Username: "alice", Email: "alice@example.com", Confirmed: true}
	cache.EXPECT().GetByID(gomock.Any(), int64(1)).Return(cached, nil)

	// No reader expectation: a cache hit must not touch the backing store.
	user, err := svc.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Confirmed)
	assert.Empty(t, user.HashedPassword, "cached projection must not carry the password digest")
	assert.Empty(t, user.Role, "cached projection must not carry the role")
}

func TestUserService_GetByID_CacheMiss(t *testing.T) {
	svc, reader, _, cache := newUserService(t)
	ctx := context.Background()

	user := &models.UserDB{ID: 1, Username: "alice", Email: "alice@example.com", Role: models.RoleUser}

	cache.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
	reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
	cache.EXPECT().Set(gomock.Any(), user).Return(nil)

	got, err := svc.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, reader, _, cache := newUserService(t)
	ctx := context.Background()

	cache.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)
	reader.EXPECT().GetByID(gomock.Any(), int64(42)).Return(nil, nil)

	got, err := svc.GetByID(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserService_GetByEmail_CacheErrorFallsThrough(t *testing.T) {
	svc, reader, _, cache := newUserService(t)
	ctx := context.Background()

	user := &models.UserDB{ID: 2, Username: "bob", Email: "bob@example.com"}

	// Cache failures degrade to the backing store, not to an error.
	cache.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(nil, errors.New("redis down"))
	reader.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(user, nil)
	cache.EXPECT().Set(gomock.Any(), user).Return(errors.New("redis down"))

	got, err := svc.GetByEmail(ctx, "bob@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserService_Create(t *testing.T) {
	svc, _, writer, cache := newUserService(t)
	ctx := context.Background()

	user := &models.UserDB{ID: 3, Username: "carol", Email: "carol@example.com"}

	writer.EXPECT().Save(gomock.Any(), "carol@example.com", "carol", "digest").Return(user, nil)
	cache.EXPECT().Set(gomock.Any(), user).Return(nil)

	got, err := svc.Create(ctx, "carol@example.com", "carol", "digest")
	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestUserService_Update_RefreshesAllKeys(t *testing.T) {
	svc, _, writer, cache := newUserService(t)
	ctx := context.Background()

	cached := &models.UserCache{ID: 4, Username: "dan", Email: "dan@example.com"}
	updated := &models.UserDB{ID: 4, Username: "daniel", Email: "dan@example.com"}

	cache.EXPECT().GetByID(gomock.Any(), int64(4)).Return(cached, nil)
	writer.EXPECT().Update(gomock.Any(), int64(4), strPtr("daniel"), (*string)(nil), (*string)(nil)).Return(updated, nil)
	cache.EXPECT().Set(gomock.Any(), updated).Return(nil)

	got, err := svc.Update(ctx, 4, strPtr("daniel"), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "daniel", got.Username)
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, reader, _, cache := newUserService(t)
	ctx := context.Background()

	cache.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)
	reader.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)

	got, err := svc.Update(ctx, 99, strPtr("nobody"), nil, nil)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	assert.Nil(t, got)
}

func TestUserService_ConfirmEmail_InvalidatesKeys(t *testing.T) {
	svc, reader, writer, cache := newUserService(t)
	ctx := context.Background()

	user := &models.UserDB{ID: 5, Username: "eve", Email: "eve@example.com"}

	reader.EXPECT().GetByEmail(gomock.Any(), "eve@example.com").Return(user, nil)
	writer.EXPECT().ConfirmEmail(gomock.Any(), "eve@example.com").Return(nil)
	cache.EXPECT().Delete(gomock.Any(), user).Return(nil)

	err := svc.ConfirmEmail(ctx, "eve@example.com")
	assert.NoError(t, err)
}

func TestUserService_ConfirmEmail_UnknownUser(t *testing.T) {
	svc, reader, _, _ := newUserService(t)
	ctx := context.Background()

	reader.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

	err := svc.ConfirmEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, reader, writer, cache := newUserService(t)
	ctx := context.Background()

	user := &models.UserDB{ID: 6, Username: "frank", Email: "frank@example.com"}

	reader.EXPECT().GetByEmail(gomock.Any(), "frank@example.com").Return(user, nil)
	writer.EXPECT().UpdatePassword(gomock.Any(), int64(6), "newdigest").Return(nil)
	cache.EXPECT().Delete(gomock.Any(), user).Return(nil)

	err := svc.UpdatePassword(ctx, "frank@example.com", "newdigest")
	assert.NoError(t, err)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	svc, reader, writer, cache := newUserService(t)
	ctx := context.Background()

	url := "https://img.example.com/avatars/grace"
	user := &models.UserDB{ID: 7, Username: "grace", Email: "grace@example.com"}
	updated := &models.UserDB{ID: 7, Username: "grace", Email: "grace@example.com", AvatarURL: &url}

	reader.EXPECT().GetByEmail(gomock.Any(), "grace@example.com").Return(user, nil)
	writer.EXPECT().Update(gomock.Any(), int64(7), (*string)(nil), (*string)(nil), &url).Return(updated, nil)
	cache.EXPECT().Set(gomock.Any(), updated).Return(nil)

	got, err := svc.UpdateAvatar(ctx, "grace@example.com", url)
	assert.NoError(t, err)
	assert.Equal(t, &url, got.AvatarURL)
}
