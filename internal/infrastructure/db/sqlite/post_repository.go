package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

const postColumns = "id, board_id, title, content, owner_id, created_at, updated_at"

type PostRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db, timeout: defaultTimeout}
}

// Create bumps the board counter first; zero affected rows means the board
// is gone and nothing is inserted.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created := *p
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE boards SET post_count = post_count + 1 WHERE id = ?`, p.BoardID)
		if err != nil {
			return mapErr("increment post_count", err, nil, nil)
		}
		if n, err := res.RowsAffected(); err != nil {
			return mapErr("increment post_count", err, nil, nil)
		} else if n == 0 {
			return domain.ErrBoardNotFound
		}

		res, err = tx.ExecContext(ctx,
			`INSERT INTO posts (board_id, title, content, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			p.BoardID, p.Title, p.Content, p.OwnerID, p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
		)
		if err != nil {
			return mapErr("insert post", err, nil, nil)
		}
		created.ID, err = res.LastInsertId()
		if err != nil {
			return mapErr("insert post", err, nil, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.CreatedAt = unixToTime(p.CreatedAt.Unix())
	created.UpdatedAt = unixToTime(p.UpdatedAt.Unix())
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var updated *domain.Post
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
			p.Title, p.Content, p.UpdatedAt.Unix(), p.ID,
		)
		if err != nil {
			return mapErr("update post", err, nil, nil)
		}
		if n, err := res.RowsAffected(); err != nil {
			return mapErr("update post", err, nil, nil)
		} else if n == 0 {
			return domain.ErrPostNotFound
		}
		updated, err = scanPost(tx.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, p.ID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID int64
		if err := tx.QueryRowContext(ctx, `SELECT board_id FROM posts WHERE id = ?`, id).Scan(&boardID); err != nil {
			return mapErr("delete post", err, domain.ErrPostNotFound, nil)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
			return mapErr("delete post", err, nil, nil)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE boards SET post_count = post_count - 1 WHERE id = ? AND post_count > 0`, boardID,
		); err != nil {
			return mapErr("decrement post_count", err, nil, nil)
		}
		return nil
	})
}

func (r *PostRepository) ListByBoard(ctx context.Context, f ports.ListPostsFilter) (*pagination.Page[*domain.Post], error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page := f.Page.Normalize()
	var result *pagination.Page[*domain.Post]

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var total int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE board_id = ?`, f.BoardID).Scan(&total); err != nil {
			return mapErr("count posts", err, nil, nil)
		}

		query := `SELECT ` + postColumns + ` FROM posts WHERE board_id = ?`
		args := []any{f.BoardID}
		if page.HasCursor() {
			query += ` AND id > ?`
			args = append(args, page.Cursor)
		}
		query += ` ORDER BY id ASC LIMIT ? OFFSET ?`
		args = append(args, page.FetchSize(), page.Offset)

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return mapErr("list posts", err, nil, nil)
		}
		defer rows.Close()

		posts := make([]*domain.Post, 0, page.FetchSize())
		for rows.Next() {
			p, err := scanPost(rows)
			if err != nil {
				return err
			}
			posts = append(posts, p)
		}
		if err := rows.Err(); err != nil {
			return mapErr("list posts", err, nil, nil)
		}

		result = pagination.NewPage(total, posts, page.Limit, postID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		p                domain.Post
		created, updated int64
	)
	if err := row.Scan(&p.ID, &p.BoardID, &p.Title, &p.Content, &p.OwnerID, &created, &updated); err != nil {
		return nil, mapErr("scan post", err, domain.ErrPostNotFound, nil)
	}
	p.CreatedAt = unixToTime(created)
	p.UpdatedAt = unixToTime(updated)
	return &p, nil
}

func postID(p *domain.Post) int64 { return p.ID }
