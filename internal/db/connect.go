package db

import (
	"context"
	"time"

	"rps_referee/internal/logger"
	"rps_referee/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(dsn string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return db
}

// OpenHistory picks the history backend: Postgres when databaseURL is set,
// SQLite when sqlitePath is set, otherwise records are dropped. The returned
// func releases the backend.
func OpenHistory(databaseURL, sqlitePath string) (repository.HistoryStore, func()) {
	switch {
	case databaseURL != "":
		pool := Connect(databaseURL)
		return repository.NewPostgresHistoryRepository(pool), pool.Close
	case sqlitePath != "":
		repo, err := repository.NewSQLiteHistoryRepository(sqlitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite history", "path", sqlitePath, "error", err)
		}
		logger.Info("sqlite history opened", "path", sqlitePath)
		return repo, func() { _ = repo.Close() }
	default:
		logger.Warn("no DATABASE_URL or SQLITE_PATH set, game history is not recorded")
		return repository.NopHistoryStore{}, func() {}
	}
}
