package handlers

import (
	"net/http"

	"rps_referee/internal/logger"
	"rps_referee/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GuestAuth issues a token for a fresh anonymous player.
func (h *Handler) GuestAuth(c *gin.Context) {
	playerID := uuid.New().String()

	token, err := service.GenerateJWT(playerID)
	if err != nil {
		logger.Error("failed to sign token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"player_id": playerID,
	})
}
