package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that leaves the core wraps exactly one of these so
// the HTTP boundary can branch with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrSessionExpired     = errors.New("session expired or invalidated")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("conflict")
	ErrUnavailable        = errors.New("dependency unavailable")
	ErrInvalidInput       = errors.New("invalid input")
)

// ErrInvalidToken is returned by the token codec; the session manager turns it
// into ErrUnauthenticated.
var ErrInvalidToken = errors.New("invalid token")

var (
	ErrBoardNotFound  = fmt.Errorf("board %w", ErrNotFound)
	ErrPostNotFound   = fmt.Errorf("post %w", ErrNotFound)
	ErrEmailTaken     = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrBoardNameTaken = fmt.Errorf("%w: board name already taken", ErrConflict)
)

// Unavailable wraps a dependency failure so that only ErrUnavailable is
// observable to callers; the cause is kept in the message for logs.
func Unavailable(op string, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, cause)
}
