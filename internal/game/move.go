package game

import "strings"

// beats maps each basic move to the move it defeats.
var beats = map[Move]Move{
	MoveRock:     MoveScissors,
	MoveScissors: MovePaper,
	MovePaper:    MoveRock,
}

// ParseMove normalizes raw input (case, surrounding whitespace) and reports
// whether it names one of the four playable moves.
func ParseMove(raw string) (Move, bool) {
	m := Move(strings.ToLower(strings.TrimSpace(raw)))
	return m, m.Valid()
}

// Valid reports whether m is a playable move.
func (m Move) Valid() bool {
	switch m {
	case MoveRock, MovePaper, MoveScissors, MoveBomb:
		return true
	}
	return false
}

// Resolve decides a round between the player's move and the opponent's move.
// Both moves must be valid.
func Resolve(player, opponent Move) Winner {
	if player == opponent {
		return WinnerDraw
	}
	if player == MoveBomb {
		return WinnerPlayer
	}
	if opponent == MoveBomb {
		return WinnerOpponent
	}
	if beats[player] == opponent {
		return WinnerPlayer
	}
	return WinnerOpponent
}
