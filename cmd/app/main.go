package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rps_referee/internal/config"
	"rps_referee/internal/db"
	httpServer "rps_referee/internal/http"
	"rps_referee/internal/http/middleware"
	"rps_referee/internal/logger"
	"rps_referee/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

const cleanupEvery = time.Minute

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if err := cfg.RequireJWT(); err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	service.InitJWT(cfg.JWTSecret)

	history, closeHistory := db.OpenHistory(cfg.DatabaseURL, cfg.SQLitePath)
	defer closeHistory()

	games, err := service.NewGameService(history, cfg.MaxRounds, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("failed to create game service", "error", err)
	}

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedis()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	hub := httpServer.RegisterRoutes(r, games, cfg, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go games.Run(ctx, cleanupEvery)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version, "max_rounds", cfg.MaxRounds)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...", "active_games", games.ActiveGames(), "ws_connections", hub.Connected())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	games.Wait()

	logger.Info("server exited")
}
