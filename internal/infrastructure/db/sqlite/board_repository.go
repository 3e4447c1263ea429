package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

const boardColumns = "id, name, public, owner_id, post_count, created_at, updated_at"

type BoardRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{db: db, timeout: defaultTimeout}
}

func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (name, public, owner_id, post_count, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?)`,
		b.Name, boolToInt(b.Public), b.OwnerID, b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, mapErr("insert board", err, nil, domain.ErrBoardNameTaken)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, mapErr("insert board", err, nil, nil)
	}

	created := *b
	created.ID = id
	created.PostCount = 0
	created.CreatedAt = unixToTime(b.CreatedAt.Unix())
	created.UpdatedAt = unixToTime(b.UpdatedAt.Unix())
	return &created, nil
}

func (r *BoardRepository) FindByID(ctx context.Context, id int64) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return scanBoard(r.db.QueryRowContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = ?`, id))
}

func (r *BoardRepository) Update(ctx context.Context, b *domain.Board) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var updated *domain.Board
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE boards SET name = ?, public = ?, updated_at = ? WHERE id = ?`,
			b.Name, boolToInt(b.Public), b.UpdatedAt.Unix(), b.ID,
		)
		if err != nil {
			return mapErr("update board", err, nil, domain.ErrBoardNameTaken)
		}
		if n, err := res.RowsAffected(); err != nil {
			return mapErr("update board", err, nil, nil)
		} else if n == 0 {
			return domain.ErrBoardNotFound
		}
		updated, err = scanBoard(tx.QueryRowContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = ?`, b.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete drops the posts explicitly instead of relying on ON DELETE CASCADE so
// the behaviour does not depend on the foreign_keys pragma.
func (r *BoardRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE board_id = ?`, id); err != nil {
			return mapErr("delete board posts", err, nil, nil)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
		if err != nil {
			return mapErr("delete board", err, nil, nil)
		}
		if n, err := res.RowsAffected(); err != nil {
			return mapErr("delete board", err, nil, nil)
		} else if n == 0 {
			return domain.ErrBoardNotFound
		}
		return nil
	})
}

// List reads the count and the window inside one transaction so Total and
// Items describe the same snapshot.
func (r *BoardRepository) List(ctx context.Context, f ports.ListBoardsFilter) (*pagination.Page[*domain.Board], error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page := f.Page.Normalize()
	var result *pagination.Page[*domain.Board]

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		where := []string{"(owner_id = ? OR public = 1)"}
		args := []any{f.ViewerID}

		var total int64
		countQuery := "SELECT COUNT(*) FROM boards WHERE " + strings.Join(where, " AND ")
		if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return mapErr("count boards", err, nil, nil)
		}

		order := "id ASC"
		if f.OrderByPostCount {
			order = "post_count DESC, id ASC"
		}

		if page.HasCursor() {
			cond, condArgs, err := r.cursorCondition(ctx, tx, f.ViewerID, f.OrderByPostCount, page.Cursor)
			if err != nil {
				return err
			}
			where = append(where, cond)
			args = append(args, condArgs...)
		}

		query := fmt.Sprintf("SELECT %s FROM boards WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
			boardColumns, strings.Join(where, " AND "), order)
		args = append(args, page.FetchSize(), page.Offset)

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return mapErr("list boards", err, nil, nil)
		}
		defer rows.Close()

		boards := make([]*domain.Board, 0, page.FetchSize())
		for rows.Next() {
			b, err := scanBoard(rows)
			if err != nil {
				return err
			}
			boards = append(boards, b)
		}
		if err := rows.Err(); err != nil {
			return mapErr("list boards", err, nil, nil)
		}

		result = pagination.NewPage(total, boards, page.Limit, boardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cursorCondition resumes after the cursor row. In post_count order the
// position of the cursor row is looked up among the boards the viewer can see;
// a cursor that is gone or hidden falls back to plain id order after it.
func (r *BoardRepository) cursorCondition(ctx context.Context, tx *sql.Tx, viewerID int64, byPostCount bool, cursor int64) (string, []any, error) {
	if !byPostCount {
		return "id > ?", []any{cursor}, nil
	}

	var count int64
	err := tx.QueryRowContext(ctx, `SELECT post_count FROM boards WHERE id = ? AND (owner_id = ? OR public = 1)`, cursor, viewerID).Scan(&count)
	switch {
	case err == nil:
		return "(post_count < ? OR (post_count = ? AND id > ?))", []any{count, count, cursor}, nil
	case errors.Is(err, sql.ErrNoRows):
		return "id > ?", []any{cursor}, nil
	default:
		return "", nil, mapErr("resolve cursor", err, nil, nil)
	}
}

func (r *BoardRepository) IDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM boards ORDER BY id`)
	if err != nil {
		return nil, mapErr("list board ids", err, nil, nil)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mapErr("list board ids", err, nil, nil)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list board ids", err, nil, nil)
	}
	return ids, nil
}

func (r *BoardRepository) RecountPosts(ctx context.Context, id int64) (before, after int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT post_count FROM boards WHERE id = ?`, id).Scan(&before); err != nil {
			return mapErr("recount posts", err, domain.ErrBoardNotFound, nil)
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE board_id = ?`, id).Scan(&after); err != nil {
			return mapErr("recount posts", err, nil, nil)
		}
		if before == after {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE boards SET post_count = ? WHERE id = ?`, after, id); err != nil {
			return mapErr("recount posts", err, nil, nil)
		}
		return nil
	})
	return before, after, err
}

func scanBoard(row rowScanner) (*domain.Board, error) {
	var (
		b                domain.Board
		public           int
		created, updated int64
	)
	if err := row.Scan(&b.ID, &b.Name, &public, &b.OwnerID, &b.PostCount, &created, &updated); err != nil {
		return nil, mapErr("scan board", err, domain.ErrBoardNotFound, nil)
	}
	b.Public = public != 0
	b.CreatedAt = unixToTime(created)
	b.UpdatedAt = unixToTime(updated)
	return &b, nil
}

func boardID(b *domain.Board) int64 { return b.ID }
