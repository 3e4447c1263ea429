package handler

import (
	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
)

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"     validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"max=200"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

// loginRequest accepts JSON {email,password} or an OAuth2-style password form
// where the email travels as "username".
type loginRequest struct {
	Email    string `json:"email"    form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Boards ---

type createBoardRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	Public *bool  `json:"public"`
}

type updateBoardRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	Public *bool  `json:"public" validate:"required"`
}

// --- Posts ---

type createPostRequest struct {
	BoardID int64  `json:"board_id" validate:"required,gt=0"`
	Title   string `json:"title"    validate:"required,max=200"`
	Content string `json:"content"  validate:"max=20000"`
}

type updatePostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"max=20000"`
}

// --- Listing ---

// listQuery carries the pagination window. Limits above the maximum are
// clamped rather than rejected.
type listQuery struct {
	Limit            int   `query:"limit"               validate:"gte=0"`
	Cursor           int64 `query:"cursor"              validate:"gte=0"`
	Offset           int   `query:"offset"              validate:"gte=0"`
	OrderByPostCount bool  `query:"order_by_post_count"`
}

func (q listQuery) page() pagination.Request {
	return pagination.Request{Limit: q.Limit, Cursor: q.Cursor, Offset: q.Offset}.Normalize()
}

type pageResponse[T any] struct {
	Total      int64  `json:"total"`
	Items      []T    `json:"items"`
	NextCursor *int64 `json:"next_cursor"`
}

type (
	boardPage = pageResponse[*domain.Board]
	postPage  = pageResponse[*domain.Post]
)

func newPageResponse[T any](p *pagination.Page[T]) pageResponse[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{Total: p.Total, Items: items, NextCursor: p.NextCursor}
}
