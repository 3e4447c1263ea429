package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/99minutos/forum-system/internal/core/domain"
)

// mapErr converts a driver error into the repository error vocabulary.
// notFound and conflict may be nil when the operation cannot produce them.
func mapErr(op string, err error, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, sql.ErrNoRows):
		return notFound
	case conflict != nil && isUniqueViolation(err):
		return conflict
	default:
		return domain.Unavailable(op, err)
	}
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// withTx runs fn inside a transaction. fn must return already mapped errors.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin tx", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Unavailable("commit tx", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
