package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for opening the SQLite store.
// Path ":memory:" opens a private in-memory database.
type Config struct {
	Path    string
	Timeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT    NOT NULL UNIQUE COLLATE NOCASE,
	full_name     TEXT    NOT NULL DEFAULT '',
	password_hash TEXT    NOT NULL,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL UNIQUE,
	public     INTEGER NOT NULL DEFAULT 1,
	owner_id   INTEGER NOT NULL REFERENCES accounts(id),
	post_count INTEGER NOT NULL DEFAULT 0 CHECK (post_count >= 0),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS boards_owner_idx      ON boards(owner_id, id);
CREATE INDEX IF NOT EXISTS boards_post_count_idx ON boards(post_count DESC, id);

CREATE TABLE IF NOT EXISTS posts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	board_id   INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
	title      TEXT    NOT NULL,
	content    TEXT    NOT NULL DEFAULT '',
	owner_id   INTEGER NOT NULL REFERENCES accounts(id),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_board_idx ON posts(board_id, id);
`

// Open connects to the database file, verifies it with a ping and makes sure
// the tables exist. SQLite allows one writer, so the pool is pinned to a
// single connection; that also keeps an in-memory database alive.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("sqlite3", dsn(cfg.Path, timeout))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	initCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(initCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.ExecContext(initCtx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return db, nil
}

func dsn(path string, busy time.Duration) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d&_journal_mode=WAL", path, busy.Milliseconds())
}

// Pinger adapts the database handle to the readiness probe.
type Pinger struct {
	db *sql.DB
}

func NewPinger(db *sql.DB) Pinger {
	return Pinger{db: db}
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
