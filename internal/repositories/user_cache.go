package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkoval7/contacts-api/internal/logger"
	"github.com/mkoval7/contacts-api/internal/models"
)

// UserCacheRepository stores user projections in Redis under three keys
// per user (id, email, username), each with the same fixed TTL.
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewUserCacheRepository creates a new cache repository with the given TTL.
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userIDKey(id int64) string        { return fmt.Sprintf("user:id:%d", id) }
func userEmailKey(email string) string { return fmt.Sprintf("user:email:%s", email) }
func userUsernameKey(u string) string  { return fmt.Sprintf("user:username:%s", u) }

func userKeys(u *models.UserDB) []string {
	return []string{
		userIDKey(u.ID),
		userEmailKey(u.Email),
		userUsernameKey(u.Username),
	}
}

func (r *UserCacheRepository) get(ctx context.Context, key string) (*models.UserCache, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("user cache get failed", "key", key, "error", err)
		return nil, err
	}

	var cached models.UserCache
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		logger.Log.Errorw("user cache entry malformed", "key", key, "error", err)
		return nil, err
	}
	return &cached, nil
}

// GetByID returns the cached projection for the id key, or nil on miss.
func (r *UserCacheRepository) GetByID(ctx context.Context, id int64) (*models.UserCache, error) {
	return r.get(ctx, userIDKey(id))
}

// GetByEmail returns the cached projection for the email key, or nil on miss.
func (r *UserCacheRepository) GetByEmail(ctx context.Context, email string) (*models.UserCache, error) {
	return r.get(ctx, userEmailKey(email))
}

// GetByUsername returns the cached projection for the username key, or nil on miss.
func (r *UserCacheRepository) GetByUsername(ctx context.Context, username string) (*models.UserCache, error) {
	return r.get(ctx, userUsernameKey(username))
}

// Set writes the user projection under all three keys with the repository TTL.
func (r *UserCacheRepository) Set(ctx context.Context, user *models.UserDB) error {
	data, err := json.Marshal(models.NewUserCache(user))
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, key := range userKeys(user) {
		pipe.Set(ctx, key, data, r.exp)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Errorw("user cache set failed", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

// Delete invalidates all three keys for the user.
func (r *UserCacheRepository) Delete(ctx context.Context, user *models.UserDB) error {
	if err := r.client.Del(ctx, userKeys(user)...).Err(); err != nil {
		logger.Log.Errorw("user cache delete failed", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}
