package game

import (
	"errors"
	"testing"
)

// scriptedBot plays a fixed sequence of moves and records what it was asked.
type scriptedBot struct {
	moves      []Move
	calls      int
	bombOffers []bool
}

func (b *scriptedBot) SelectMove(bombAvailable bool) Move {
	b.bombOffers = append(b.bombOffers, bombAvailable)
	m := b.moves[b.calls%len(b.moves)]
	b.calls++
	return m
}

func newTestEngine(t *testing.T, maxRounds int, moves ...Move) (*Engine, *scriptedBot) {
	t.Helper()
	bot := &scriptedBot{moves: moves}
	e, err := NewEngine(maxRounds, WithStrategy(bot))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e, bot
}

func TestNewEngineRejectsNonPositiveRounds(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NewEngine(n)
		if !errors.Is(err, ErrInvalidMaxRounds) {
			t.Fatalf("NewEngine(%d) err = %v; want ErrInvalidMaxRounds", n, err)
		}
		if !errors.Is(err, ErrContractViolation) {
			t.Fatalf("NewEngine(%d) err = %v; want contract violation", n, err)
		}
	}
}

func TestResolveRoundOutcomes(t *testing.T) {
	cases := []struct {
		player string
		bot    Move
		winner Winner
		pScore int
		oScore int
		pBomb  bool
		oBomb  bool
	}{
		{"rock", MoveScissors, WinnerPlayer, 1, 0, false, false},
		{"scissors", MoveRock, WinnerOpponent, 0, 1, false, false},
		{"paper", MovePaper, WinnerDraw, 0, 0, false, false},
		{"bomb", MoveBomb, WinnerDraw, 0, 0, true, true},
		{"bomb", MoveRock, WinnerPlayer, 1, 0, true, false},
		{"paper", MoveBomb, WinnerOpponent, 0, 1, false, true},
	}

	for _, tc := range cases {
		e, _ := newTestEngine(t, 3, tc.bot)
		out, err := e.ResolveRound(tc.player)
		if err != nil {
			t.Fatalf("ResolveRound(%s): %v", tc.player, err)
		}
		if out.Status != StatusOK {
			t.Fatalf("%s vs %s: status = %s; want ok", tc.player, tc.bot, out.Status)
		}
		if out.Winner != tc.winner {
			t.Fatalf("%s vs %s: winner = %s; want %s", tc.player, tc.bot, out.Winner, tc.winner)
		}
		if out.PlayerScore != tc.pScore || out.OpponentScore != tc.oScore {
			t.Fatalf("%s vs %s: score = %d-%d; want %d-%d", tc.player, tc.bot, out.PlayerScore, out.OpponentScore, tc.pScore, tc.oScore)
		}
		snap := e.Snapshot()
		if snap.PlayerBombUsed != tc.pBomb || snap.OpponentBombUsed != tc.oBomb {
			t.Fatalf("%s vs %s: bombs = %v/%v; want %v/%v", tc.player, tc.bot, snap.PlayerBombUsed, snap.OpponentBombUsed, tc.pBomb, tc.oBomb)
		}
		if out.Round != 1 || snap.RoundsPlayed != 1 {
			t.Fatalf("%s vs %s: round = %d, played = %d; want 1", tc.player, tc.bot, out.Round, snap.RoundsPlayed)
		}
	}
}

func TestResolveRoundNormalizesInput(t *testing.T) {
	e, _ := newTestEngine(t, 3, MoveScissors)
	out, err := e.ResolveRound("  ROCK ")
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	if out.Status != StatusOK || out.PlayerMove != MoveRock || out.Winner != WinnerPlayer {
		t.Fatalf("got %+v; want ok rock win", out)
	}
}

func TestUnknownMoveWastesRound(t *testing.T) {
	e, bot := newTestEngine(t, 3, MoveRock)
	out, err := e.ResolveRound("lizard")
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	if out.Status != StatusInvalid || out.Reason != ReasonUnknownMove {
		t.Fatalf("status = %s reason = %s; want invalid unknown_move", out.Status, out.Reason)
	}
	if out.OpponentMove != MoveNone || out.PlayerMove != "" {
		t.Fatalf("moves = %q/%q; want empty/none", out.PlayerMove, out.OpponentMove)
	}
	if out.Winner != WinnerOpponent || out.OpponentScore != 1 || out.PlayerScore != 0 {
		t.Fatalf("got %+v; want opponent point", out)
	}
	if out.Submitted != "lizard" {
		t.Fatalf("submitted = %q; want lizard", out.Submitted)
	}
	if bot.calls != 0 {
		t.Fatalf("bot moved %d times on a wasted round", bot.calls)
	}
}

func TestSecondBombIsInvalid(t *testing.T) {
	e, bot := newTestEngine(t, 3, MoveRock)
	if _, err := e.ResolveRound("bomb"); err != nil {
		t.Fatalf("first bomb: %v", err)
	}
	out, err := e.ResolveRound("BOMB")
	if err != nil {
		t.Fatalf("second bomb: %v", err)
	}
	if out.Status != StatusInvalid || out.Reason != ReasonBombAlreadyUsed {
		t.Fatalf("got %+v; want invalid bomb_already_used", out)
	}
	if !e.PlayerBombUsed() {
		t.Fatalf("player bomb flag cleared")
	}
	if out.Round != 2 || out.PlayerScore != 1 || out.OpponentScore != 1 {
		t.Fatalf("got %+v; want round 2 score 1-1", out)
	}
	if bot.calls != 1 {
		t.Fatalf("bot calls = %d; want 1", bot.calls)
	}
}

func TestBotBombOfferedOnlyUntilUsed(t *testing.T) {
	e, bot := newTestEngine(t, 3, MoveBomb, MoveRock, MoveRock)
	for _, m := range []string{"rock", "rock", "rock"} {
		if _, err := e.ResolveRound(m); err != nil {
			t.Fatalf("ResolveRound: %v", err)
		}
	}
	want := []bool{true, false, false}
	for i, got := range bot.bombOffers {
		if got != want[i] {
			t.Fatalf("bomb offered on call %d = %v; want %v", i, got, want[i])
		}
	}
}

func TestGameOverAndFinalResult(t *testing.T) {
	cases := []struct {
		name  string
		moves []string
		bot   []Move
		want  FinalResult
	}{
		{"player wins", []string{"rock", "rock", "paper"}, []Move{MoveScissors, MoveScissors, MoveScissors}, ResultPlayerWins},
		{"opponent wins on wasted rounds", []string{"lizard", "spock", "rock"}, []Move{MoveScissors}, ResultOpponentWins},
		{"all draws", []string{"rock", "paper", "scissors"}, []Move{MoveRock, MovePaper, MoveScissors}, ResultDraw},
		{"one each and a draw", []string{"rock", "rock", "rock"}, []Move{MoveScissors, MovePaper, MoveRock}, ResultDraw},
	}

	for _, tc := range cases {
		e, _ := newTestEngine(t, 3, tc.bot...)
		var last Outcome
		for i, m := range tc.moves {
			out, err := e.ResolveRound(m)
			if err != nil {
				t.Fatalf("%s: round %d: %v", tc.name, i+1, err)
			}
			if i < len(tc.moves)-1 && (out.GameOver || out.FinalResult != "") {
				t.Fatalf("%s: game over after round %d", tc.name, i+1)
			}
			last = out
		}
		if !last.GameOver || !e.IsOver() {
			t.Fatalf("%s: game not over after 3 rounds", tc.name)
		}
		if last.FinalResult != tc.want {
			t.Fatalf("%s: final = %s; want %s", tc.name, last.FinalResult, tc.want)
		}
	}
}

func TestResolveAfterGameOverFailsWithoutMutation(t *testing.T) {
	e, bot := newTestEngine(t, 1, MoveScissors)
	if _, err := e.ResolveRound("rock"); err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	before := e.Snapshot()

	for i := 0; i < 2; i++ {
		_, err := e.ResolveRound("rock")
		if !errors.Is(err, ErrGameOver) || !errors.Is(err, ErrContractViolation) {
			t.Fatalf("err = %v; want ErrGameOver", err)
		}
	}

	after := e.Snapshot()
	if after.RoundsPlayed != before.RoundsPlayed || after.PlayerScore != before.PlayerScore ||
		after.OpponentScore != before.OpponentScore || len(after.History) != len(before.History) {
		t.Fatalf("state changed after game over: %+v -> %+v", before, after)
	}
	if bot.calls != 1 {
		t.Fatalf("bot calls = %d; want 1", bot.calls)
	}
}

func TestRoundCountAndScoreInvariants(t *testing.T) {
	inputs := []string{"rock", "lizard", "bomb", "bomb", "paper", "  Scissors", "", "rock"}
	e, err := NewEngine(len(inputs), WithSeed(7))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	draws := 0
	for i, in := range inputs {
		before := e.Snapshot()
		out, err := e.ResolveRound(in)
		if err != nil {
			t.Fatalf("round %d: %v", i+1, err)
		}
		after := e.Snapshot()
		if after.RoundsPlayed != before.RoundsPlayed+1 || out.Round != after.RoundsPlayed {
			t.Fatalf("round %d: played %d -> %d (outcome %d)", i+1, before.RoundsPlayed, after.RoundsPlayed, out.Round)
		}
		if before.PlayerBombUsed && !after.PlayerBombUsed || before.OpponentBombUsed && !after.OpponentBombUsed {
			t.Fatalf("round %d: bomb flag reverted", i+1)
		}
		gained := (after.PlayerScore - before.PlayerScore) + (after.OpponentScore - before.OpponentScore)
		if out.Winner == WinnerDraw {
			draws++
			if gained != 0 {
				t.Fatalf("round %d: draw awarded %d points", i+1, gained)
			}
		} else if gained != 1 {
			t.Fatalf("round %d: awarded %d points; want 1", i+1, gained)
		}
		if after.PlayerScore+after.OpponentScore+draws != after.RoundsPlayed {
			t.Fatalf("round %d: score deficit does not match draws", i+1)
		}
	}

	if !e.IsOver() {
		t.Fatalf("engine not over after %d rounds", len(inputs))
	}
	snap := e.Snapshot()
	if snap.History[3].Status != StatusInvalid || snap.History[3].Reason != ReasonBombAlreadyUsed {
		t.Fatalf("second bomb outcome = %+v; want invalid", snap.History[3])
	}
}

func TestSeededEnginesReplayIdentically(t *testing.T) {
	a, _ := NewEngine(5, WithSeed(42))
	b, _ := NewEngine(5, WithSeed(42))
	for _, m := range []string{"rock", "paper", "scissors", "bomb", "rock"} {
		oa, _ := a.ResolveRound(m)
		ob, _ := b.ResolveRound(m)
		if oa != ob {
			t.Fatalf("seeded engines diverged: %+v vs %+v", oa, ob)
		}
	}
}

func TestAvailableMoves(t *testing.T) {
	e, _ := newTestEngine(t, 2, MoveRock)
	if got := len(e.Snapshot().AvailableMoves()); got != 4 {
		t.Fatalf("available moves = %d; want 4", got)
	}
	_, _ = e.ResolveRound("bomb")
	moves := e.Snapshot().AvailableMoves()
	for _, m := range moves {
		if m == MoveBomb {
			t.Fatalf("bomb still offered after use")
		}
	}
	_, _ = e.ResolveRound("rock")
	if got := len(e.Snapshot().AvailableMoves()); got != 0 {
		t.Fatalf("available moves after game over = %d; want 0", got)
	}
}

func TestStrategyMovesAreChecked(t *testing.T) {
	cases := []struct {
		name string
		bot  []Move
		good int
	}{
		{"second bomb", []Move{MoveBomb, MoveBomb}, 1},
		{"unknown move", []Move{"lizard"}, 0},
		{"none", []Move{MoveNone}, 0},
	}

	for _, tc := range cases {
		e, _ := newTestEngine(t, 3, tc.bot...)
		for i := 0; i < tc.good; i++ {
			if _, err := e.ResolveRound("rock"); err != nil {
				t.Fatalf("%s: round %d: %v", tc.name, i+1, err)
			}
		}
		before := e.Snapshot()

		_, err := e.ResolveRound("rock")
		if !errors.Is(err, ErrInvalidStrategyMove) || !errors.Is(err, ErrContractViolation) {
			t.Fatalf("%s: err = %v; want ErrInvalidStrategyMove", tc.name, err)
		}

		after := e.Snapshot()
		if after.RoundsPlayed != before.RoundsPlayed || after.OpponentScore != before.OpponentScore ||
			after.PlayerBombUsed != before.PlayerBombUsed || len(after.History) != len(before.History) {
			t.Fatalf("%s: state changed: %+v -> %+v", tc.name, before, after)
		}
	}
}

func TestWastedRoundDoesNotAskStrategy(t *testing.T) {
	e, bot := newTestEngine(t, 3, "lizard")
	out, err := e.ResolveRound("spock")
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	if out.Status != StatusInvalid || bot.calls != 0 {
		t.Fatalf("outcome = %+v, bot calls = %d; want invalid round without bot", out, bot.calls)
	}
}
