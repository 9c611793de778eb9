package services

import (
	"context"
	"errors"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/models"
)

// ErrUserNotFound is returned when a user lookup resolves to nothing.
var ErrUserNotFound = errors.New("user not found")

// UserReader defines authoritative read operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, email, username, hashedPassword string) (*models.UserDB, error)
	Update(ctx context.Context, id int64, username, email, avatarURL *string) (*models.UserDB, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
}

// UserCacher defines the Redis projection cache for users.
type UserCacher interface {
	GetByID(ctx context.Context, id int64) (*models.UserCache, error)
	GetByEmail(ctx context.Context, email string) (*models.UserCache, error)
	GetByUsername(ctx context.Context, username string) (*models.UserCache, error)
	Set(ctx context.Context, user *models.UserDB) error
	Delete(ctx context.Context, user *models.UserDB) error
}

// UserService is the cache-aside user store: reads check the cache first and
// populate it on miss, writes go to Postgres and then refresh or invalidate
// all three cache keys for the user.
//
// A cache hit yields a partial record without hashed password and role, so
// credential and role checks must go through the authoritative repository.
type UserService struct {
	reader UserReader
	writer UserWriter
	cache  UserCacher
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter, cache UserCacher) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
		cache:  cache,
	}
}

// cacheSet refreshes the cache projection; failures are logged, not surfaced.
// The backing store already holds the committed record, and stale entries
// expire with the TTL.
func (svc *UserService) cacheSet(ctx context.Context, user *models.UserDB) {
	if err := svc.cache.Set(ctx, user); err != nil {
		logger.Log.Errorw("failed to refresh user cache", "user_id", user.ID, "err", err)
	}
}

// GetByID returns the user by id, served from cache when possible.
func (svc *UserService) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	cached, err := svc.cache.GetByID(ctx, id)
	if err == nil && cached != nil {
		return cached.User(), nil
	}

	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user != nil {
		svc.cacheSet(ctx, user)
	}
	return user, nil
}

// GetByEmail returns the user by email, served from cache when possible.
func (svc *UserService) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	cached, err := svc.cache.GetByEmail(ctx, email)
	if err == nil && cached != nil {
		return cached.User(), nil
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		svc.cacheSet(ctx, user)
	}
	return user, nil
}

// GetByUsername returns the user by username, served from cache when possible.
func (svc *UserService) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	cached, err := svc.cache.GetByUsername(ctx, username)
	if err == nil && cached != nil {
		return cached.User(), nil
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		svc.cacheSet(ctx, user)
	}
	return user, nil
}

// Create inserts a new unconfirmed user and populates all three cache keys.
func (svc *UserService) Create(ctx context.Context, email, username, hashedPassword string) (*models.UserDB, error) {
	user, err := svc.writer.Save(ctx, email, username, hashedPassword)
	if err != nil {
		return nil, err
	}
	svc.cacheSet(ctx, user)
	return user, nil
}

// Update applies the allow-listed profile fields (username, email, avatar_url)
// and overwrites all three cache keys with the refreshed projection. Entries
// under a replaced email or username expire with the TTL.
func (svc *UserService) Update(ctx context.Context, id int64, username, email, avatarURL *string) (*models.UserDB, error) {
	current, err := svc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	updated, err := svc.writer.Update(ctx, id, username, email, avatarURL)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	svc.cacheSet(ctx, updated)
	return updated, nil
}

// ConfirmEmail flips the confirmed flag and invalidates all three cache keys.
func (svc *UserService) ConfirmEmail(ctx context.Context, email string) error {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := svc.writer.ConfirmEmail(ctx, email); err != nil {
		return err
	}
	if err := svc.cache.Delete(ctx, user); err != nil {
		logger.Log.Errorw("failed to invalidate user cache", "user_id", user.ID, "err", err)
	}
	return nil
}

// UpdatePassword replaces the stored digest and invalidates the cache keys.
func (svc *UserService) UpdatePassword(ctx context.Context, email, hashedPassword string) error {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := svc.writer.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}
	if err := svc.cache.Delete(ctx, user); err != nil {
		logger.Log.Errorw("failed to invalidate user cache", "user_id", user.ID, "err", err)
	}
	return nil
}

// UpdateAvatar persists a new avatar URL for the user with the given email
// and refreshes the cache projection.
func (svc *UserService) UpdateAvatar(ctx context.Context, email, url string) (*models.UserDB, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	updated, err := svc.writer.Update(ctx, user.ID, nil, nil, &url)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	svc.cacheSet(ctx, updated)
	return updated, nil
}
