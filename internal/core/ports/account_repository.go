package ports

import (
	"context"

	"github.com/99minutos/forum-system/internal/core/domain"
)

// AccountRepository persists accounts. Email lookups expect an already
// normalised address (see domain.NormalizeEmail).
type AccountRepository interface {
	// Create stores a new account and returns it with its assigned ID.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}
