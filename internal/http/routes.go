package http

import (
	"time"

	"rps_referee/internal/config"
	"rps_referee/internal/http/handlers"
	"rps_referee/internal/http/middleware"
	"rps_referee/internal/service"
	"rps_referee/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	guestAuthLimit  = 10
	guestAuthWindow = time.Minute
)

// RegisterRoutes wires the HTTP API, metrics and the WebSocket endpoint.
func RegisterRoutes(r *gin.Engine, games *service.GameService, cfg *config.Config, version string) *ws.Hub {
	h := handlers.NewHandler(games)
	hub := ws.NewHub(games)
	healthHandler := handlers.NewHealthHandler(games, hub, version)

	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIWindow()))

	v1.POST("/auth/guest", middleware.SimpleRateLimit(guestAuthLimit, guestAuthWindow), h.GuestAuth)
	v1.GET("/game/rules", h.Rules)

	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, cfg.GameWindow())

	authed := v1.Group("", middleware.JWT())
	{
		authed.POST("/game/start", h.StartGame)
		authed.POST("/game/move", gameRL, h.Move)
		authed.GET("/game/state", h.State)
		authed.POST("/game/forfeit", h.Forfeit)

		authed.GET("/me/games", h.MyGames)
		authed.GET("/me/games/:id", h.MyGame)
		authed.GET("/me/stats", h.MyStats)
	}

	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))

	return hub
}
