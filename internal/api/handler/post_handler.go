package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/99minutos/forum-system/internal/api/metrics"
	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /api/v1/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), account.ID, ports.CreatePostInput{
		BoardID: req.BoardID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	metrics.PostsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, post)
}

// ListByBoard handles GET /api/v1/boards/:id/posts.
//
// @Summary      List the posts of a board
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int  true   "Board id"
// @Param        limit   query     int  false  "Page size (default 10, max 100)"
// @Param        cursor  query     int  false  "Id of the last post of the previous page"
// @Param        offset  query     int  false  "Rows to skip before the window"
// @Success      200     {object}  postPage
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/boards/{id}/posts [get]
func (h *PostHandler) ListByBoard(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.ListingDuration.WithLabelValues("posts"))
	defer timer.ObserveDuration()

	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	boardID, err := pathID(c, "id", domain.ErrBoardNotFound)
	if err != nil {
		return err
	}
	q, err := bindQuery(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListPosts(c.Request().Context(), account.ID, boardID, q.page())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(page))
}

// Get handles GET /api/v1/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrPostNotFound)
	if err != nil {
		return err
	}

	post, err := h.service.GetPost(c.Request().Context(), account.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Update handles PUT /api/v1/posts/:id.
//
// @Summary      Edit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Post id"
// @Param        body  body      updatePostRequest  true  "Post"
// @Success      200   {object}  domain.Post
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrPostNotFound)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.Request().Context(), account.ID, id, ports.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/v1/posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  int  true  "Post id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrPostNotFound)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), account.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
