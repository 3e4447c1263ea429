package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/api/handler"
	"github.com/99minutos/forum-system/internal/core/ports"
	"github.com/99minutos/forum-system/internal/infrastructure/config"
	mongoinfra "github.com/99minutos/forum-system/internal/infrastructure/db/mongo"
	sqliteinfra "github.com/99minutos/forum-system/internal/infrastructure/db/sqlite"
)

// store bundles the repositories of the configured backend.
type store struct {
	name     string
	accounts ports.AccountRepository
	boards   ports.BoardRepository
	posts    ports.PostRepository
	pinger   handler.Pinger
	close    func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := sqliteinfra.Open(ctx, sqliteinfra.Config{Path: cfg.SQLite.Path})
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite opened")
		return &store{
			name:     "sqlite",
			accounts: sqliteinfra.NewAccountRepository(db),
			boards:   sqliteinfra.NewBoardRepository(db),
			posts:    sqliteinfra.NewPostRepository(db),
			pinger:   sqliteinfra.NewPinger(db),
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return &store{
			name:     "mongodb",
			accounts: mongoinfra.NewAccountRepository(db),
			boards:   mongoinfra.NewBoardRepository(db),
			posts:    mongoinfra.NewPostRepository(db),
			pinger:   mongoinfra.NewPinger(client),
			close:    client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
