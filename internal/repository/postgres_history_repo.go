package repository

import (
	"context"
	"encoding/json"
	"errors"

	"rps_referee/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresHistoryRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHistoryRepository(db *pgxpool.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// Create saves a finished game
func (r *PostgresHistoryRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO game_history
			(id, player_id, channel, result, max_rounds, rounds_played, player_score, opponent_score, rounds, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING finished_at`,
		rec.ID,
		rec.PlayerID,
		rec.Channel,
		rec.Result,
		rec.MaxRounds,
		rec.RoundsPlayed,
		rec.PlayerScore,
		rec.OpponentScore,
		marshalRounds(rec),
		rec.StartedAt,
		rec.FinishedAt,
	).Scan(&rec.FinishedAt)

	return err
}

func (r *PostgresHistoryRepository) GetByID(ctx context.Context, id string) (*domain.GameRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, channel, result, max_rounds, rounds_played,
				player_score, opponent_score, rounds, started_at, finished_at
		 FROM game_history
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs, err := r.scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}

// ListByPlayer returns the player's games, newest first
func (r *PostgresHistoryRepository) ListByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, channel, result, max_rounds, rounds_played,
				player_score, opponent_score, rounds, started_at, finished_at
		 FROM game_history
		 WHERE player_id = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`,
		playerID, normalizeLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *PostgresHistoryRepository) StatsByPlayer(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	stats := &domain.PlayerStats{PlayerID: playerID}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) as total_games,
			COUNT(*) FILTER (WHERE result = 'win') as wins,
			COUNT(*) FILTER (WHERE result = 'lose') as losses,
			COUNT(*) FILTER (WHERE result = 'draw') as draws,
			COUNT(*) FILTER (WHERE result = 'forfeit') as forfeits
		 FROM game_history
		 WHERE player_id = $1`,
		playerID,
	).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses, &stats.Draws, &stats.Forfeits)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *PostgresHistoryRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresHistoryRepository) scanRows(rows pgx.Rows) ([]*domain.GameRecord, error) {
	result := []*domain.GameRecord{}

	for rows.Next() {
		var (
			rec        domain.GameRecord
			roundsJSON []byte
		)

		if err := rows.Scan(
			&rec.ID, &rec.PlayerID, &rec.Channel, &rec.Result, &rec.MaxRounds,
			&rec.RoundsPlayed, &rec.PlayerScore, &rec.OpponentScore,
			&roundsJSON, &rec.StartedAt, &rec.FinishedAt,
		); err != nil {
			return nil, err
		}

		if len(roundsJSON) > 0 {
			_ = json.Unmarshal(roundsJSON, &rec.Rounds)
		}

		result = append(result, &rec)
	}

	return result, rows.Err()
}
