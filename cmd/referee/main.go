// Command referee serves one RPS+ game over MCP on stdin/stdout.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"rps_referee/internal/config"
	"rps_referee/internal/db"
	"rps_referee/internal/game"
	"rps_referee/internal/logger"
	"rps_referee/internal/referee"
	"rps_referee/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	player := flag.String("player", "mcp-agent", "player id games are recorded under")
	seed := flag.Uint64("seed", 0, "seed the bot for reproducible games (0 = random)")
	flag.Parse()

	// stdout carries the protocol
	cfg, err := config.Parse()
	if err != nil {
		logger.InitWriter(os.Stderr, "info", false)
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.InitWriter(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	history, closeHistory := db.OpenHistory(cfg.DatabaseURL, cfg.SQLitePath)
	defer closeHistory()

	var opts []service.GameServiceOption
	if *seed != 0 {
		opts = append(opts, service.WithEngineOptions(game.WithSeed(*seed)))
	}
	games, err := service.NewGameService(history, cfg.MaxRounds, cfg.SessionTTL, opts...)
	if err != nil {
		logger.Fatal("failed to create game service", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ref := referee.New(games, *player)
	if err := ref.Run(ctx, &mcp.StdioTransport{}, version); err != nil && ctx.Err() == nil {
		logger.Error("referee stopped", "error", err)
	}
	games.Wait()
}
