package domain

import (
	"time"

	"rps_referee/internal/game"
)

// Channel - which surface the game was played through
type Channel string

const (
	ChannelHTTP Channel = "http"
	ChannelWS   Channel = "ws"
	ChannelMCP  Channel = "mcp"
)

// GameResult - how a recorded game ended for the player
type GameResult string

const (
	GameResultWin     GameResult = "win"
	GameResultLose    GameResult = "lose"
	GameResultDraw    GameResult = "draw"
	GameResultForfeit GameResult = "forfeit"
)

// ResultFromFinal maps the engine's final result onto the player's view.
func ResultFromFinal(r game.FinalResult) GameResult {
	switch r {
	case game.ResultPlayerWins:
		return GameResultWin
	case game.ResultOpponentWins:
		return GameResultLose
	default:
		return GameResultDraw
	}
}

// GameRecord - a finished (or forfeited) game
type GameRecord struct {
	ID            string         `db:"id" json:"id"`
	PlayerID      string         `db:"player_id" json:"player_id"`
	Channel       Channel        `db:"channel" json:"channel"`
	Result        GameResult     `db:"result" json:"result"`
	MaxRounds     int            `db:"max_rounds" json:"max_rounds"`
	RoundsPlayed  int            `db:"rounds_played" json:"rounds_played"`
	PlayerScore   int            `db:"player_score" json:"player_score"`
	OpponentScore int            `db:"opponent_score" json:"opponent_score"`
	Rounds        []game.Outcome `db:"rounds" json:"rounds"`
	StartedAt     time.Time      `db:"started_at" json:"started_at"`
	FinishedAt    time.Time      `db:"finished_at" json:"finished_at"`
}

// NewGameRecord builds a record from a session snapshot.
func NewGameRecord(id, playerID string, channel Channel, snap game.Snapshot, startedAt time.Time, forfeit bool) *GameRecord {
	result := ResultFromFinal(snap.FinalResult)
	if forfeit {
		result = GameResultForfeit
	}
	return &GameRecord{
		ID:            id,
		PlayerID:      playerID,
		Channel:       channel,
		Result:        result,
		MaxRounds:     snap.MaxRounds,
		RoundsPlayed:  snap.RoundsPlayed,
		PlayerScore:   snap.PlayerScore,
		OpponentScore: snap.OpponentScore,
		Rounds:        snap.History,
		StartedAt:     startedAt,
		FinishedAt:    time.Now().UTC(),
	}
}

// PlayerStats - aggregated results for one player
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	Forfeits   int    `json:"forfeits"`
}
