package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/99minutos/forum-system/internal/api/metrics"
	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/ports"
)

// BoardHandler handles HTTP requests for board operations.
type BoardHandler struct {
	service ports.BoardService
}

func NewBoardHandler(service ports.BoardService) *BoardHandler {
	return &BoardHandler{service: service}
}

// Create handles POST /api/v1/boards. Boards are public unless "public" is
// explicitly false.
//
// @Summary      Create a board
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBoardRequest  true  "Board"
// @Success      201   {object}  domain.Board
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/boards [post]
func (h *BoardHandler) Create(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req createBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	board, err := h.service.CreateBoard(c.Request().Context(), account.ID, ports.CreateBoardInput{
		Name:   req.Name,
		Public: public,
	})
	if err != nil {
		return err
	}
	metrics.BoardsCreatedTotal.WithLabelValues(board.Visibility()).Inc()

	return c.JSON(http.StatusCreated, board)
}

// List handles GET /api/v1/boards.
//
// @Summary      List visible boards
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Param        limit                query     int   false  "Page size (default 10, max 100)"
// @Param        cursor               query     int   false  "Id of the last board of the previous page"
// @Param        offset               query     int   false  "Rows to skip before the window"
// @Param        order_by_post_count  query     bool  false  "Order by post_count DESC, id ASC"
// @Success      200                  {object}  boardPage
// @Failure      401                  {object}  map[string]string
// @Failure      422                  {object}  map[string]string
// @Router       /api/v1/boards [get]
func (h *BoardHandler) List(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.ListingDuration.WithLabelValues("boards"))
	defer timer.ObserveDuration()

	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	q, err := bindQuery(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListBoards(c.Request().Context(), account.ID, ports.ListBoardsInput{
		OrderByPostCount: q.OrderByPostCount,
		Page:             q.page(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(page))
}

// Get handles GET /api/v1/boards/:id.
//
// @Summary      Get a board
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Board id"
// @Success      200  {object}  domain.Board
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/boards/{id} [get]
func (h *BoardHandler) Get(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBoardNotFound)
	if err != nil {
		return err
	}

	board, err := h.service.GetBoard(c.Request().Context(), account.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

// Update handles PUT /api/v1/boards/:id.
//
// @Summary      Rename a board or change its visibility
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Board id"
// @Param        body  body      updateBoardRequest  true  "Board"
// @Success      200   {object}  domain.Board
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/boards/{id} [put]
func (h *BoardHandler) Update(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBoardNotFound)
	if err != nil {
		return err
	}

	var req updateBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	board, err := h.service.UpdateBoard(c.Request().Context(), account.ID, id, ports.UpdateBoardInput{
		Name:   req.Name,
		Public: *req.Public,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

// Delete handles DELETE /api/v1/boards/:id. The board's posts go with it.
//
// @Summary      Delete a board
// @Tags         boards
// @Security     BearerAuth
// @Param        id   path  int  true  "Board id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/boards/{id} [delete]
func (h *BoardHandler) Delete(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", domain.ErrBoardNotFound)
	if err != nil {
		return err
	}

	if err := h.service.DeleteBoard(c.Request().Context(), account.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
