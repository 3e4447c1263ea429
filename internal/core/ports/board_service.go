package ports

import (
	"context"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
)

type CreateBoardInput struct {
	Name   string
	Public bool
}

type UpdateBoardInput struct {
	Name   string
	Public bool
}

type ListBoardsInput struct {
	OrderByPostCount bool
	Page             pagination.Request
}

// BoardService applies access control to board operations. actorID is the
// authenticated account.
type BoardService interface {
	CreateBoard(ctx context.Context, actorID int64, in CreateBoardInput) (*domain.Board, error)
	GetBoard(ctx context.Context, actorID, boardID int64) (*domain.Board, error)
	UpdateBoard(ctx context.Context, actorID, boardID int64, in UpdateBoardInput) (*domain.Board, error)
	DeleteBoard(ctx context.Context, actorID, boardID int64) error
	ListBoards(ctx context.Context, actorID int64, in ListBoardsInput) (*pagination.Page[*domain.Board], error)
}
