package handlers

import (
	"errors"
	"net/http"

	"rps_referee/internal/game"
	"rps_referee/internal/http/middleware"
	"rps_referee/internal/logger"
	"rps_referee/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games *service.GameService
}

func NewHandler(games *service.GameService) *Handler {
	return &Handler{Games: games}
}

// playerID extracts the JWT player or writes 401.
func playerID(c *gin.Context) (string, bool) {
	id, ok := middleware.PlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return "", false
	}
	return id, true
}

// gameError maps service and engine errors onto HTTP statuses.
func gameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveGame):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGameInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrGameOver):
		c.JSON(http.StatusConflict, gin.H{"error": "game is over, start a new one"})
	case errors.Is(err, service.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPlayer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error("game request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
