package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/users-api/internal/core/domain"
)

const defaultUserTTL = 5 * time.Minute

// UserCache keeps identities resolved from bearer tokens.
// Key format: user:<id>. Password hashes are never cached.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

type cachedUser struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

// Get returns the cached user, or nil on a miss.
func (c *UserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &domain.User{
		ID:         cu.ID,
		Username:   cu.Username,
		FirstName:  cu.FirstName,
		LastName:   cu.LastName,
		Email:      cu.Email,
		IsStaff:    cu.IsStaff,
		DateJoined: cu.DateJoined,
	}, nil
}

// Set stores user for the cache TTL.
func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedUser{
		ID:         user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		IsStaff:    user.IsStaff,
		DateJoined: user.DateJoined,
	})
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, c.ttl).Err()
}

func (c *UserCache) key(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
