// Package cache holds the short-lived user lookup cache backing current-user
// resolution. Entries are never authoritative: a miss always falls back to
// the database, and callers re-Put after every user mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/contacts-service/internal/models"
)

// UserCache maps a user's email to a snapshot of the resolved user.
type UserCache interface {
	Get(ctx context.Context, email string) (*models.User, bool, error)
	Put(ctx context.Context, email string, user *models.User, ttl time.Duration) error
}

const userKeyPrefix = "user:"

type RedisUserCache struct {
	rdb *redis.Client
}

func NewRedisUserCache(rdb *redis.Client) *RedisUserCache {
	return &RedisUserCache{rdb: rdb}
}

func (c *RedisUserCache) Get(ctx context.Context, email string) (*models.User, bool, error) {
	data, err := c.rdb.Get(ctx, userKeyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	user, err := decodeUser(data)
	if err != nil {
		// A corrupt entry is treated as a miss; the caller re-reads the
		// store and overwrites it.
		return nil, false, nil
	}
	return user, true, nil
}

// Put stores the snapshot and its expiry in a single SET call so no entry
// can exist without a TTL.
func (c *RedisUserCache) Put(ctx context.Context, email string, user *models.User, ttl time.Duration) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, userKeyPrefix+email, data, ttl).Err()
}

type userSnapshot struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Confirmed    bool      `json:"confirmed"`
	Avatar       string    `json:"avatar"`
	RefreshToken *string   `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func encodeUser(u *models.User) ([]byte, error) {
	return json.Marshal(userSnapshot(*u))
}

func decodeUser(data []byte) (*models.User, error) {
	var s userSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	u := models.User(s)
	return &u, nil
}
