package ports

import (
	"context"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
)

// ListBoardsFilter selects the boards visible to ViewerID: the ones it owns
// plus every public board.
type ListBoardsFilter struct {
	ViewerID         int64
	OrderByPostCount bool // post_count DESC, id ASC instead of id ASC
	Page             pagination.Request
}

// BoardRepository persists boards. Implementations surface only
// domain.ErrBoardNotFound, domain.ErrBoardNameTaken and domain.ErrUnavailable.
type BoardRepository interface {
	Create(ctx context.Context, board *domain.Board) (*domain.Board, error)
	FindByID(ctx context.Context, id int64) (*domain.Board, error)
	// Update writes name and visibility.
	Update(ctx context.Context, board *domain.Board) (*domain.Board, error)
	// Delete removes the board and all of its posts in one transaction.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListBoardsFilter) (*pagination.Page[*domain.Board], error)

	// IDs returns every board id in ascending order.
	IDs(ctx context.Context) ([]int64, error)
	// RecountPosts sets post_count to the number of live posts and returns the
	// stored value before and after.
	RecountPosts(ctx context.Context, id int64) (before, after int64, err error)
}
