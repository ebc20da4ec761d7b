package game

import "fmt"

// Engine owns the state of one game and resolves its rounds.
// It does no locking: callers sharing an engine must serialize access.
type Engine struct {
	maxRounds        int
	roundsPlayed     int
	playerScore      int
	opponentScore    int
	playerBombUsed   bool
	opponentBombUsed bool
	over             bool
	finalResult      FinalResult
	history          []Outcome

	bot Strategy
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy replaces the default random bot.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s != nil {
			e.bot = s
		}
	}
}

// WithSeed makes the default bot deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.bot = NewSeededBot(seed)
	}
}

// NewEngine creates a game with the given round budget.
func NewEngine(maxRounds int, opts ...Option) (*Engine, error) {
	if maxRounds <= 0 {
		return nil, ErrInvalidMaxRounds
	}
	e := &Engine{
		maxRounds: maxRounds,
		history:   make([]Outcome, 0, maxRounds),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bot == nil {
		e.bot = NewRandomBot(nil)
	}
	return e, nil
}

// ResolveRound plays one round with the submitted move. Unknown moves and a
// second bomb waste the round and award it to the opponent. Calling it after
// the game is over returns ErrGameOver, and a strategy answering with an
// unknown move or a second bomb returns ErrInvalidStrategyMove; neither
// changes the game.
func (e *Engine) ResolveRound(submitted string) (Outcome, error) {
	if e.over {
		return Outcome{}, ErrGameOver
	}

	move, ok := ParseMove(submitted)
	var reason InvalidReason
	switch {
	case !ok:
		reason = ReasonUnknownMove
	case move == MoveBomb && e.playerBombUsed:
		reason = ReasonBombAlreadyUsed
	}

	// the bot only moves on valid rounds
	var botMove Move
	if reason == "" {
		botMove = e.bot.SelectMove(!e.opponentBombUsed)
		if !botMove.Valid() || botMove == MoveBomb && e.opponentBombUsed {
			return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidStrategyMove, botMove)
		}
	}

	// invalid attempts still consume a round
	e.roundsPlayed++

	out := Outcome{
		Round:     e.roundsPlayed,
		Submitted: string(move),
	}

	if reason != "" {
		e.opponentScore++
		out.Status = StatusInvalid
		out.Reason = reason
		out.OpponentMove = MoveNone
		out.Winner = WinnerOpponent
	} else {
		if move == MoveBomb {
			e.playerBombUsed = true
		}
		if botMove == MoveBomb {
			e.opponentBombUsed = true
		}

		out.Status = StatusOK
		out.PlayerMove = move
		out.OpponentMove = botMove
		out.Winner = Resolve(move, botMove)

		switch out.Winner {
		case WinnerPlayer:
			e.playerScore++
		case WinnerOpponent:
			e.opponentScore++
		}
	}

	if e.roundsPlayed == e.maxRounds {
		e.over = true
		e.finalResult = e.decideFinal()
	}

	out.PlayerScore = e.playerScore
	out.OpponentScore = e.opponentScore
	out.GameOver = e.over
	out.FinalResult = e.finalResult

	e.history = append(e.history, out)
	return out, nil
}

func (e *Engine) decideFinal() FinalResult {
	switch {
	case e.playerScore > e.opponentScore:
		return ResultPlayerWins
	case e.playerScore < e.opponentScore:
		return ResultOpponentWins
	default:
		return ResultDraw
	}
}

// IsOver reports whether the round budget is exhausted.
func (e *Engine) IsOver() bool { return e.over }

// PlayerBombUsed reports whether the player already spent the bomb.
func (e *Engine) PlayerBombUsed() bool { return e.playerBombUsed }

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	history := make([]Outcome, len(e.history))
	copy(history, e.history)
	return Snapshot{
		MaxRounds:        e.maxRounds,
		RoundsPlayed:     e.roundsPlayed,
		PlayerScore:      e.playerScore,
		OpponentScore:    e.opponentScore,
		PlayerBombUsed:   e.playerBombUsed,
		OpponentBombUsed: e.opponentBombUsed,
		GameOver:         e.over,
		FinalResult:      e.finalResult,
		History:          history,
	}
}
