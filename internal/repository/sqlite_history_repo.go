package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rps_referee/internal/domain"

	_ "modernc.org/sqlite"
)

// fixed width so that text ordering matches time ordering
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteHistoryRepository stores game history in a local SQLite file. Handy
// for development and for the MCP referee, which runs without Postgres.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

func NewSQLiteHistoryRepository(path string) (*SQLiteHistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	r := &SQLiteHistoryRepository{db: db}
	if err := r.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}

// Migrate creates the schema if it does not exist
func (r *SQLiteHistoryRepository) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS game_history (
			id TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			channel TEXT NOT NULL,
			result TEXT NOT NULL,
			max_rounds INTEGER NOT NULL,
			rounds_played INTEGER NOT NULL,
			player_score INTEGER NOT NULL,
			opponent_score INTEGER NOT NULL,
			rounds TEXT NOT NULL DEFAULT '[]',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_history_player ON game_history(player_id, finished_at)`,
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (r *SQLiteHistoryRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_history
			(id, player_id, channel, result, max_rounds, rounds_played, player_score, opponent_score, rounds, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.PlayerID,
		string(rec.Channel),
		string(rec.Result),
		rec.MaxRounds,
		rec.RoundsPlayed,
		rec.PlayerScore,
		rec.OpponentScore,
		string(marshalRounds(rec)),
		rec.StartedAt.UTC().Format(sqliteTimeFormat),
		rec.FinishedAt.UTC().Format(sqliteTimeFormat),
	)
	return err
}

func (r *SQLiteHistoryRepository) GetByID(ctx context.Context, id string) (*domain.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, player_id, channel, result, max_rounds, rounds_played,
				player_score, opponent_score, rounds, started_at, finished_at
		 FROM game_history WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs, err := scanSQLiteRows(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

func (r *SQLiteHistoryRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, player_id, channel, result, max_rounds, rounds_played,
				player_score, opponent_score, rounds, started_at, finished_at
		 FROM game_history
		 WHERE player_id = ?
		 ORDER BY finished_at DESC
		 LIMIT ?`, playerID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteRows(rows)
}

func (r *SQLiteHistoryRepository) StatsByPlayer(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	stats := &domain.PlayerStats{PlayerID: playerID}
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'lose' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'draw' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'forfeit' THEN 1 ELSE 0 END), 0)
		 FROM game_history
		 WHERE player_id = ?`, playerID,
	).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses, &stats.Draws, &stats.Forfeits)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *SQLiteHistoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanSQLiteRows(rows rowScanner) ([]*domain.GameRecord, error) {
	result := []*domain.GameRecord{}

	for rows.Next() {
		var (
			rec                 domain.GameRecord
			channel, res        string
			roundsJSON          string
			startedAt, finished string
		)
		if err := rows.Scan(
			&rec.ID, &rec.PlayerID, &channel, &res, &rec.MaxRounds,
			&rec.RoundsPlayed, &rec.PlayerScore, &rec.OpponentScore,
			&roundsJSON, &startedAt, &finished,
		); err != nil {
			return nil, err
		}
		rec.Channel = domain.Channel(channel)
		rec.Result = domain.GameResult(res)
		rec.StartedAt, _ = time.Parse(sqliteTimeFormat, startedAt)
		rec.FinishedAt, _ = time.Parse(sqliteTimeFormat, finished)
		if roundsJSON != "" {
			_ = json.Unmarshal([]byte(roundsJSON), &rec.Rounds)
		}
		result = append(result, &rec)
	}

	return result, rows.Err()
}
