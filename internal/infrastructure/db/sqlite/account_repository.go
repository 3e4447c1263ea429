package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/99minutos/forum-system/internal/core/domain"
)

const accountColumns = "id, email, full_name, password_hash, created_at"

type AccountRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, timeout: defaultTimeout}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (email, full_name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		domain.NormalizeEmail(a.Email), a.FullName, a.PasswordHash, a.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, mapErr("insert account", err, nil, domain.ErrEmailTaken)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, mapErr("insert account", err, nil, nil)
	}

	created := *a
	created.ID = id
	created.Email = domain.NormalizeEmail(a.Email)
	created.CreatedAt = unixToTime(a.CreatedAt.Unix())
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, domain.NormalizeEmail(email))
	return scanAccount(row)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a       domain.Account
		created int64
	)
	if err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &created); err != nil {
		return nil, mapErr("find account", err, domain.ErrAccountNotFound, nil)
	}
	a.CreatedAt = unixToTime(created)
	return &a, nil
}
