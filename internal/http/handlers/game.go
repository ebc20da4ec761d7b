package handlers

import (
	"net/http"

	"rps_referee/internal/domain"
	"rps_referee/internal/game"

	"github.com/gin-gonic/gin"
)

// MoveRequest carries the raw move. Validation is the engine's job: an
// unknown move is a wasted round, not a 400.
type MoveRequest struct {
	Move *string `json:"move"`
}

// StartGame begins a new game for the player.
func (h *Handler) StartGame(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	st, err := h.Games.StartGame(c.Request.Context(), pid, domain.ChannelHTTP)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// Move plays one round.
func (h *Handler) Move(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Move == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: body must be {\"move\": \"...\"}"})
		return
	}

	out, err := h.Games.Play(c.Request.Context(), pid, *req.Move)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// State returns the player's current game.
func (h *Handler) State(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	st, err := h.Games.State(pid)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Forfeit abandons the player's unfinished game.
func (h *Handler) Forfeit(c *gin.Context) {
	pid, ok := playerID(c)
	if !ok {
		return
	}

	st, err := h.Games.Forfeit(c.Request.Context(), pid)
	if err != nil {
		gameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result": domain.GameResultForfeit,
		"game":   st,
	})
}

// Rules describes the game for clients.
func (h *Handler) Rules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"max_rounds": h.Games.MaxRounds(),
		"moves":      []game.Move{game.MoveRock, game.MovePaper, game.MoveScissors, game.MoveBomb},
		"beats": gin.H{
			string(game.MoveRock):     game.MoveScissors,
			string(game.MoveScissors): game.MovePaper,
			string(game.MovePaper):    game.MoveRock,
			string(game.MoveBomb):     []game.Move{game.MoveRock, game.MovePaper, game.MoveScissors},
		},
		"bomb_limit":   1,
		"bomb_vs_bomb": game.WinnerDraw,
		"invalid_move": "wastes the round and gives the opponent a point",
	})
}
