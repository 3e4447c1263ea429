package ports

import (
	"context"

	"github.com/99minutos/forum-system/internal/core/domain"
)

type SignupInput struct {
	Email    string
	FullName string
	Password string
}

// AuthService owns the session lifecycle: signup, login, logout and the
// per-request token validation.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	Logout(ctx context.Context, accountID int64) error
	Validate(ctx context.Context, token string) (*domain.Account, error)
}
