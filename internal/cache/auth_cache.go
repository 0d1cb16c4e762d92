// Package cache implements the ephemeral side of the session engine: a
// read-through user cache, single-use email tokens and the access-token
// jti blacklist, all TTL-bounded in Redis. Nothing here is durable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkoval/auth-backend/internal/domain"
	"github.com/dkoval/auth-backend/pkg/database"
)

// AuthCache handles ephemeral auth state in Redis.
type AuthCache struct {
	redis *database.Redis
}

// NewAuthCache creates a new auth cache.
func NewAuthCache(redis *database.Redis) *AuthCache {
	return &AuthCache{redis: redis}
}

func userKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func emailTokenKey(purpose domain.TokenPurpose, token string) string {
	return fmt.Sprintf("email_token:%s:%s", purpose, token)
}

func blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:jti:%s", jti)
}

// SetUser stores a read-through copy of the user record.
func (c *AuthCache) SetUser(ctx context.Context, user *domain.User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := c.redis.Client.Set(ctx, userKey(user.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

// GetUser returns the cached user, or (nil, nil) on a miss.
func (c *AuthCache) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	payload, err := c.redis.Client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached user: %w", err)
	}

	user := &domain.User{}
	if err := json.Unmarshal(payload, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}
	return user, nil
}

// InvalidateUser drops the cached copy. Every user mutation path must call
// this; skipping it only widens staleness to the TTL window.
func (c *AuthCache) InvalidateUser(ctx context.Context, userID string) error {
	if err := c.redis.Client.Del(ctx, userKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached user: %w", err)
	}
	return nil
}

// SetEphemeralToken stores a single-use (purpose, token) -> user id mapping
// with a TTL.
func (c *AuthCache) SetEphemeralToken(ctx context.Context, purpose domain.TokenPurpose, token, userID string, ttl time.Duration) error {
	if err := c.redis.Client.Set(ctx, emailTokenKey(purpose, token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store ephemeral token: %w", err)
	}
	return nil
}

// ConsumeEphemeralToken resolves and destroys the token in one GETDEL round
// trip, which is the single-use guarantee: two concurrent consumers cannot
// both observe the token. Returns ("", nil) for absent or expired tokens.
func (c *AuthCache) ConsumeEphemeralToken(ctx context.Context, purpose domain.TokenPurpose, token string) (string, error) {
	userID, err := c.redis.Client.GetDel(ctx, emailTokenKey(purpose, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to consume ephemeral token: %w", err)
	}
	return userID, nil
}

// BlacklistJTI revokes an access token by its jti until the token would
// have expired anyway.
func (c *AuthCache) BlacklistJTI(ctx context.Context, jti string, ttl time.Duration) error {
	if err := c.redis.Client.Set(ctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist jti: %w", err)
	}
	return nil
}

// IsJTIBlacklisted checks whether an access token jti has been revoked.
func (c *AuthCache) IsJTIBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := c.redis.Client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check jti blacklist: %w", err)
	}
	return exists > 0, nil
}
