package referee

import (
	"context"
	"errors"

	"rps_referee/internal/game"
	"rps_referee/internal/logger"
	"rps_referee/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PlayTurnInput represents the MCP tool input for one round.
type PlayTurnInput struct {
	Move string `json:"move" jsonschema:"rock, paper, scissors or bomb; anything else wastes the round"`
}

// RoundResult represents the MCP tool output for one round.
type RoundResult struct {
	Round         int    `json:"round" jsonschema:"round number, starting at 1"`
	Status        string `json:"status" jsonschema:"ok, or invalid when the move wasted the round"`
	Reason        string `json:"reason,omitempty" jsonschema:"why the move was invalid"`
	Submitted     string `json:"submitted" jsonschema:"the move as submitted"`
	PlayerMove    string `json:"player_move,omitempty" jsonschema:"normalized player move, empty when invalid"`
	OpponentMove  string `json:"opponent_move" jsonschema:"bot move, none when the round was wasted"`
	Winner        string `json:"winner" jsonschema:"player, opponent or draw"`
	PlayerScore   int    `json:"player_score" jsonschema:"player rounds won so far"`
	OpponentScore int    `json:"opponent_score" jsonschema:"bot rounds won so far"`
	GameOver      bool   `json:"game_over" jsonschema:"whether this was the last round"`
	FinalResult   string `json:"final_result,omitempty" jsonschema:"player_wins, opponent_wins or draw once the game is over"`
}

// GameStateInput is empty; the referee has one game.
type GameStateInput struct{}

// NewGameInput represents the MCP tool input for starting a game.
type NewGameInput struct {
	Force bool `json:"force,omitempty" jsonschema:"forfeit an unfinished game instead of failing"`
}

// StateResult represents the MCP tool output describing the game.
type StateResult struct {
	GameID           string        `json:"game_id" jsonschema:"current game identifier"`
	MaxRounds        int           `json:"max_rounds" jsonschema:"rounds in a game"`
	RoundsPlayed     int           `json:"rounds_played" jsonschema:"rounds resolved so far"`
	PlayerScore      int           `json:"player_score" jsonschema:"player rounds won"`
	OpponentScore    int           `json:"opponent_score" jsonschema:"bot rounds won"`
	PlayerBombUsed   bool          `json:"player_bomb_used" jsonschema:"whether the player spent the bomb"`
	OpponentBombUsed bool          `json:"opponent_bomb_used" jsonschema:"whether the bot spent the bomb"`
	GameOver         bool          `json:"game_over" jsonschema:"whether the game has ended"`
	FinalResult      string        `json:"final_result,omitempty" jsonschema:"result once the game is over"`
	AvailableMoves   []string      `json:"available_moves" jsonschema:"moves that will not waste the round"`
	History          []RoundResult `json:"history" jsonschema:"resolved rounds in order"`
}

func PlayTurnTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "play_turn",
		Description: "Plays one round with the given move. Every call is a new round.",
	}
}

func GameStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_state",
		Description: "Describes the current game: scores, bomb usage, remaining moves and history",
	}
}

func NewGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "new_game",
		Description: "Starts a new game once the current one is over, or forfeits it with force",
	}
}

func (r *Referee) playTurn(ctx context.Context, _ *mcp.CallToolRequest, input PlayTurnInput) (*mcp.CallToolResult, RoundResult, error) {
	out, err := r.PlayTurn(ctx, input.Move)
	if err != nil {
		if errors.Is(err, game.ErrGameOver) {
			return nil, RoundResult{}, errors.New("game is over; call new_game to play again")
		}
		logger.WithContext(ctx).Error("play_turn failed", "error", err)
		return nil, RoundResult{}, err
	}
	return nil, roundResult(out), nil
}

func (r *Referee) gameState(ctx context.Context, _ *mcp.CallToolRequest, _ GameStateInput) (*mcp.CallToolResult, StateResult, error) {
	st, err := r.State(ctx)
	if err != nil {
		return nil, StateResult{}, err
	}
	return nil, stateResult(st), nil
}

func (r *Referee) newGame(ctx context.Context, _ *mcp.CallToolRequest, input NewGameInput) (*mcp.CallToolResult, StateResult, error) {
	st, err := r.NewGame(ctx, input.Force)
	if err != nil {
		return nil, StateResult{}, err
	}
	return nil, stateResult(st), nil
}

func roundResult(o game.Outcome) RoundResult {
	return RoundResult{
		Round:         o.Round,
		Status:        string(o.Status),
		Reason:        string(o.Reason),
		Submitted:     o.Submitted,
		PlayerMove:    string(o.PlayerMove),
		OpponentMove:  string(o.OpponentMove),
		Winner:        string(o.Winner),
		PlayerScore:   o.PlayerScore,
		OpponentScore: o.OpponentScore,
		GameOver:      o.GameOver,
		FinalResult:   string(o.FinalResult),
	}
}

func stateResult(st service.SessionState) StateResult {
	moves := make([]string, 0, len(st.AvailableMoves))
	for _, m := range st.AvailableMoves {
		moves = append(moves, string(m))
	}
	history := make([]RoundResult, 0, len(st.History))
	for _, o := range st.History {
		history = append(history, roundResult(o))
	}
	return StateResult{
		GameID:           st.GameID,
		MaxRounds:        st.MaxRounds,
		RoundsPlayed:     st.RoundsPlayed,
		PlayerScore:      st.PlayerScore,
		OpponentScore:    st.OpponentScore,
		PlayerBombUsed:   st.PlayerBombUsed,
		OpponentBombUsed: st.OpponentBombUsed,
		GameOver:         st.GameOver,
		FinalResult:      string(st.FinalResult),
		AvailableMoves:   moves,
		History:          history,
	}
}
