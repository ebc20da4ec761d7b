package game

import "math/rand/v2"

// BombChance is the probability the bot plays its bomb while it is still
// available.
const BombChance = 0.10

var basicMoves = [3]Move{MoveRock, MovePaper, MoveScissors}

// Strategy picks the opponent's move for a round.
type Strategy interface {
	SelectMove(bombAvailable bool) Move
}

// RandomBot plays bomb with BombChance while it has one, otherwise picks
// uniformly among rock, paper and scissors. It keeps no memory of the player.
type RandomBot struct {
	rng *rand.Rand
}

// NewRandomBot creates a bot drawing from src. A nil src uses a randomly
// seeded PCG source.
func NewRandomBot(src rand.Source) *RandomBot {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomBot{rng: rand.New(src)}
}

// NewSeededBot is a deterministic bot for replays and tests.
func NewSeededBot(seed uint64) *RandomBot {
	return NewRandomBot(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (b *RandomBot) SelectMove(bombAvailable bool) Move {
	if bombAvailable && b.rng.Float64() < BombChance {
		return MoveBomb
	}
	return basicMoves[b.rng.IntN(len(basicMoves))]
}
