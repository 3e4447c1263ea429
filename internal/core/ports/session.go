package ports

import (
	"context"
	"time"
)

// SessionCache maps an account to its single live token. Entries expire on
// their own; an expired entry is indistinguishable from a missing one.
type SessionCache interface {
	Put(ctx context.Context, accountID int64, token string, ttl time.Duration) error
	Get(ctx context.Context, accountID int64) (token string, found bool, err error)
	Delete(ctx context.Context, accountID int64) error
}

// TokenCodec signs and verifies compact, time-bounded access tokens.
type TokenCodec interface {
	Issue(accountID int64, ttl time.Duration) (string, error)
	// Verify returns domain.ErrInvalidToken for any bad, tampered or expired token.
	Verify(token string) (int64, error)
}

// PasswordHasher is a one-way slow hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
