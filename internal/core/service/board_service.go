package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/access"
	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

type BoardService struct {
	boards ports.BoardRepository
	log    zerolog.Logger
}

func NewBoardService(boards ports.BoardRepository, log zerolog.Logger) *BoardService {
	return &BoardService{boards: boards, log: log}
}

// CreateBoard makes the actor the owner of a new board.
func (s *BoardService) CreateBoard(ctx context.Context, actorID int64, in ports.CreateBoardInput) (*domain.Board, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	board, err := s.boards.Create(ctx, &domain.Board{
		Name:      name,
		Public:    in.Public,
		OwnerID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("board_id", board.ID).Int64("owner_id", actorID).Str("visibility", board.Visibility()).Msg("board created")
	return board, nil
}

// GetBoard hides private boards of other accounts behind ErrBoardNotFound.
func (s *BoardService) GetBoard(ctx context.Context, actorID, boardID int64) (*domain.Board, error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeBoardRead(board, actorID); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) UpdateBoard(ctx context.Context, actorID, boardID int64, in ports.UpdateBoardInput) (*domain.Board, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeBoardWrite(board, actorID); err != nil {
		return nil, err
	}

	board.Name = name
	board.Public = in.Public
	board.UpdatedAt = time.Now().UTC()

	updated, err := s.boards.Update(ctx, board)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("board_id", boardID).Str("visibility", updated.Visibility()).Msg("board updated")
	return updated, nil
}

// DeleteBoard removes the board together with its posts.
func (s *BoardService) DeleteBoard(ctx context.Context, actorID, boardID int64) error {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return err
	}
	if err := access.AuthorizeBoardWrite(board, actorID); err != nil {
		return err
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		return err
	}

	s.log.Info().Int64("board_id", boardID).Int64("posts", board.PostCount).Msg("board deleted")
	return nil
}

// ListBoards pages through the actor's own boards plus all public ones.
func (s *BoardService) ListBoards(ctx context.Context, actorID int64, in ports.ListBoardsInput) (*pagination.Page[*domain.Board], error) {
	return s.boards.List(ctx, ports.ListBoardsFilter{
		ViewerID:         actorID,
		OrderByPostCount: in.OrderByPostCount,
		Page:             in.Page.Normalize(),
	})
}
