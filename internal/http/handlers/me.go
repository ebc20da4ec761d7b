package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MyGames lists the player's recorded games, newest first.
func (h *Handler) MyGames(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	games, err := h.Games.History(c.Request.Context(), pid, limit)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// MyGame returns one recorded game with its rounds.
func (h *Handler) MyGame(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	rec, err := h.Games.Game(c.Request.Context(), pid, c.Param("id"))
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// MyStats aggregates the player's recorded games.
func (h *Handler) MyStats(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	stats, err := h.Games.Stats(c.Request.Context(), pid)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
