package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/forum-system/internal/core/domain"
)

// SessionCache keeps one live token per account.
// Key format: session:<account_id>
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// Put overwrites any previous token for the account.
func (s *SessionCache) Put(ctx context.Context, accountID int64, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(accountID), token, ttl).Err(); err != nil {
		return domain.Unavailable("session put", err)
	}
	return nil
}

func (s *SessionCache) Get(ctx context.Context, accountID int64) (string, bool, error) {
	token, err := s.client.Get(ctx, s.key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, domain.Unavailable("session get", err)
	}
	return token, true, nil
}

// Delete is idempotent.
func (s *SessionCache) Delete(ctx context.Context, accountID int64) error {
	if err := s.client.Del(ctx, s.key(accountID)).Err(); err != nil {
		return domain.Unavailable("session delete", err)
	}
	return nil
}

func (s *SessionCache) key(accountID int64) string {
	return "session:" + strconv.FormatInt(accountID, 10)
}
