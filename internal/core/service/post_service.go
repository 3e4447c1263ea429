package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/access"
	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

type PostService struct {
	posts  ports.PostRepository
	boards ports.BoardRepository
	log    zerolog.Logger
}

func NewPostService(posts ports.PostRepository, boards ports.BoardRepository, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, boards: boards, log: log}
}

// CreatePost is allowed on public boards and on the actor's own boards.
func (s *PostService) CreatePost(ctx context.Context, actorID int64, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	board, err := s.boards.FindByID(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizePostCreate(board, actorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post, err := s.posts.Create(ctx, &domain.Post{
		BoardID:   board.ID,
		Title:     title,
		Content:   in.Content,
		OwnerID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("post_id", post.ID).Int64("board_id", board.ID).Int64("owner_id", actorID).Msg("post created")
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, actorID, postID int64) (*domain.Post, error) {
	post, board, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizePostRead(post, board, actorID); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost is reserved to the post's owner, whoever owns the board.
func (s *PostService) UpdatePost(ctx context.Context, actorID, postID int64, in ports.UpdatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}

	post, board, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizePostWrite(post, board, actorID); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = in.Content
	post.UpdatedAt = time.Now().UTC()

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("post_id", postID).Msg("post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, actorID, postID int64) error {
	post, board, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if err := access.AuthorizePostWrite(post, board, actorID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.log.Info().Int64("post_id", postID).Int64("board_id", post.BoardID).Msg("post deleted")
	return nil
}

// ListPosts pages through a board the actor can see.
func (s *PostService) ListPosts(ctx context.Context, actorID, boardID int64, page pagination.Request) (*pagination.Page[*domain.Post], error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeBoardRead(board, actorID); err != nil {
		return nil, err
	}

	return s.posts.ListByBoard(ctx, ports.ListPostsFilter{
		BoardID: board.ID,
		Page:    page.Normalize(),
	})
}

// load fetches a post and its board. A post whose board is gone is treated as
// missing.
func (s *PostService) load(ctx context.Context, postID int64) (*domain.Post, *domain.Board, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	board, err := s.boards.FindByID(ctx, post.BoardID)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			return nil, nil, domain.ErrPostNotFound
		}
		return nil, nil, err
	}
	return post, board, nil
}
