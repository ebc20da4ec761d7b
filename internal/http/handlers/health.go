package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker reports on the game service and its history store.
type Checker interface {
	Ping(ctx context.Context) error
	ActiveGames() int
	MaxRounds() int
}

// ConnCounter reports live WebSocket connections.
type ConnCounter interface {
	Connected() int
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	games   Checker
	conns   ConnCounter
	version string
}

func NewHealthHandler(games Checker, conns ConnCounter, version string) *HealthHandler {
	return &HealthHandler{games: games, conns: conns, version: version}
}

type HistoryHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type GamesHealth struct {
	Active      int `json:"active"`
	Connections int `json:"ws_connections"`
	MaxRounds   int `json:"max_rounds"`
}

// ReadinessResponse is the /readyz body.
type ReadinessResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version,omitempty"`
	Timestamp string        `json:"timestamp"`
	History   HistoryHealth `json:"history"`
	Games     GamesHealth   `json:"games"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports whether finished games can be recorded, plus live game
// counts (for k8s readiness probe).
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	history := h.pingHistory(ctx)
	games := GamesHealth{
		Active:    h.games.ActiveGames(),
		MaxRounds: h.games.MaxRounds(),
	}
	if h.conns != nil {
		games.Connections = h.conns.Connected()
	}

	status, code := "ready", http.StatusOK
	if history.Status != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, ReadinessResponse{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		History:   history,
		Games:     games,
	})
}

// Health is a combined endpoint for basic health checks
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if history := h.pingHistory(ctx); history.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "history store unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      h.version,
		"active_games": h.games.ActiveGames(),
	})
}

func (h *HealthHandler) pingHistory(ctx context.Context) HistoryHealth {
	start := time.Now()
	err := h.games.Ping(ctx)
	res := HistoryHealth{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = "down"
		res.Error = err.Error()
	}
	return res
}
