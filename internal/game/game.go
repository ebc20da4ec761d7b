package game

// Move is one of the four symbols a side may play.
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
	MoveBomb     Move = "bomb"

	// MoveNone marks the opponent's move on a wasted round
	MoveNone Move = "none"
)

// Winner of a single round
type Winner string

const (
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
	WinnerDraw     Winner = "draw"
)

// Status of a resolved round
type Status string

const (
	StatusOK      Status = "ok"
	StatusInvalid Status = "invalid"
)

// FinalResult is set once the last round has been resolved
type FinalResult string

const (
	ResultPlayerWins   FinalResult = "player_wins"
	ResultOpponentWins FinalResult = "opponent_wins"
	ResultDraw         FinalResult = "draw"
)

// InvalidReason explains why a round was wasted
type InvalidReason string

const (
	ReasonUnknownMove     InvalidReason = "unknown_move"
	ReasonBombAlreadyUsed InvalidReason = "bomb_already_used"
)

// DefaultMaxRounds is the best-of-three round budget.
const DefaultMaxRounds = 3

// Outcome describes the result of one ResolveRound call.
type Outcome struct {
	Round         int           `json:"round"`
	Status        Status        `json:"status"`
	Reason        InvalidReason `json:"reason,omitempty"`
	Submitted     string        `json:"submitted"`
	PlayerMove    Move          `json:"player_move,omitempty"`
	OpponentMove  Move          `json:"opponent_move"`
	Winner        Winner        `json:"winner"`
	PlayerScore   int           `json:"player_score"`
	OpponentScore int           `json:"opponent_score"`
	GameOver      bool          `json:"game_over"`
	FinalResult   FinalResult   `json:"final_result,omitempty"`
}

// Snapshot is a read-only view of a session between rounds.
type Snapshot struct {
	MaxRounds        int         `json:"max_rounds"`
	RoundsPlayed     int         `json:"rounds_played"`
	PlayerScore      int         `json:"player_score"`
	OpponentScore    int         `json:"opponent_score"`
	PlayerBombUsed   bool        `json:"player_bomb_used"`
	OpponentBombUsed bool        `json:"opponent_bomb_used"`
	GameOver         bool        `json:"game_over"`
	FinalResult      FinalResult `json:"final_result,omitempty"`
	History          []Outcome   `json:"history"`
}

// AvailableMoves returns the moves the player may still submit without
// wasting the round.
func (s Snapshot) AvailableMoves() []Move {
	if s.GameOver {
		return []Move{}
	}
	moves := []Move{MoveRock, MovePaper, MoveScissors}
	if !s.PlayerBombUsed {
		moves = append(moves, MoveBomb)
	}
	return moves
}
