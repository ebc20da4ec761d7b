package repository

import (
	"context"
	"encoding/json"
	"errors"

	"rps_referee/internal/domain"
)

var ErrNotFound = errors.New("not found")

// HistoryStore persists finished games.
type HistoryStore interface {
	Create(ctx context.Context, rec *domain.GameRecord) error
	GetByID(ctx context.Context, id string) (*domain.GameRecord, error)
	ListByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error)
	StatsByPlayer(ctx context.Context, playerID string) (*domain.PlayerStats, error)
	Ping(ctx context.Context) error
}

const defaultListLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > defaultListLimit {
		return defaultListLimit
	}
	return limit
}

// rowScanner is satisfied by both pgx.Rows and *sql.Rows
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func marshalRounds(rec *domain.GameRecord) []byte {
	b, err := json.Marshal(rec.Rounds)
	if err != nil || rec.Rounds == nil {
		return []byte("[]")
	}
	return b
}

// NopHistoryStore drops records. Used when no database is configured.
type NopHistoryStore struct{}

func (NopHistoryStore) Create(context.Context, *domain.GameRecord) error { return nil }

func (NopHistoryStore) GetByID(context.Context, string) (*domain.GameRecord, error) {
	return nil, ErrNotFound
}

func (NopHistoryStore) ListByPlayer(context.Context, string, int) ([]*domain.GameRecord, error) {
	return []*domain.GameRecord{}, nil
}

func (NopHistoryStore) StatsByPlayer(_ context.Context, playerID string) (*domain.PlayerStats, error) {
	return &domain.PlayerStats{PlayerID: playerID}, nil
}

func (NopHistoryStore) Ping(context.Context) error { return nil }
