package ports

import (
	"context"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
)

type ListPostsFilter struct {
	BoardID int64
	Page    pagination.Request
}

// PostRepository persists posts. Create and Delete adjust the owning board's
// post_count inside the same transaction as the post write.
type PostRepository interface {
	// Create returns domain.ErrBoardNotFound if the board vanished meanwhile.
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// Update writes title and content.
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
	ListByBoard(ctx context.Context, filter ListPostsFilter) (*pagination.Page[*domain.Post], error)
}
