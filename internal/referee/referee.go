// Package referee exposes a game as MCP tools, so a tool-calling agent can
// play it one round per call.
package referee

import (
	"context"
	"errors"
	"sync"

	"rps_referee/internal/domain"
	"rps_referee/internal/game"
	"rps_referee/internal/logger"
	"rps_referee/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "rps-referee"

// ErrGameInProgress is returned by new_game without force while a game runs.
var ErrGameInProgress = errors.New("a game is in progress; call new_game with force=true to forfeit it")

// Referee drives one player's games through the GameService. Every tool call
// is serialized by mu, so compound operations like forfeit-then-start are atomic.
type Referee struct {
	games    *service.GameService
	playerID string
	mu       sync.Mutex
}

func New(games *service.GameService, playerID string) *Referee {
	return &Referee{games: games, playerID: playerID}
}

// NewServer builds the MCP server with the referee's tools registered.
func (r *Referee) NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, &mcp.ServerOptions{
		Instructions: "Rock, paper and scissors plus a single-use bomb against a bot. " +
			"Call play_turn once per round; an invalid move wastes the round.",
	})
	mcp.AddTool(server, PlayTurnTool(), r.playTurn)
	mcp.AddTool(server, GameStateTool(), r.gameState)
	mcp.AddTool(server, NewGameTool(), r.newGame)
	return server
}

// Run serves over transport until ctx is done or the client disconnects.
func (r *Referee) Run(ctx context.Context, transport mcp.Transport, version string) error {
	if _, err := r.games.StartGame(ctx, r.playerID, domain.ChannelMCP); err != nil && !errors.Is(err, service.ErrGameInProgress) {
		return err
	}
	logger.Info("referee serving", "player_id", r.playerID)
	return r.NewServer(version).Run(ctx, transport)
}

// PlayTurn resolves one round. A missing session (never started or swept
// after idling) is replaced by a fresh game first.
func (r *Referee) PlayTurn(ctx context.Context, move string) (game.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, err := r.games.Play(ctx, r.playerID, move)
	if errors.Is(err, service.ErrNoActiveGame) {
		if _, err = r.games.StartGame(ctx, r.playerID, domain.ChannelMCP); err != nil {
			return game.Outcome{}, err
		}
		out, err = r.games.Play(ctx, r.playerID, move)
	}
	return out, err
}

// State returns the current game, starting one if there is none.
func (r *Referee) State(ctx context.Context) (service.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.games.State(r.playerID)
	if errors.Is(err, service.ErrNoActiveGame) {
		return r.games.StartGame(ctx, r.playerID, domain.ChannelMCP)
	}
	return st, err
}

// NewGame starts a fresh game. An unfinished game is forfeited only when
// force is set.
func (r *Referee) NewGame(ctx context.Context, force bool) (service.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.games.StartGame(ctx, r.playerID, domain.ChannelMCP)
	if !errors.Is(err, service.ErrGameInProgress) {
		return st, err
	}
	if !force {
		return service.SessionState{}, ErrGameInProgress
	}
	if _, err := r.games.Forfeit(ctx, r.playerID); err != nil {
		return service.SessionState{}, err
	}
	return r.games.StartGame(ctx, r.playerID, domain.ChannelMCP)
}
