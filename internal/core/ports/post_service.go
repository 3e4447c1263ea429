package ports

import (
	"context"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
)

type CreatePostInput struct {
	BoardID int64
	Title   string
	Content string
}

type UpdatePostInput struct {
	Title   string
	Content string
}

// PostService applies access control to post operations.
type PostService interface {
	CreatePost(ctx context.Context, actorID int64, in CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, actorID, postID int64) (*domain.Post, error)
	UpdatePost(ctx context.Context, actorID, postID int64, in UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, actorID, postID int64) error
	ListPosts(ctx context.Context, actorID, boardID int64, page pagination.Request) (*pagination.Page[*domain.Post], error)
}
