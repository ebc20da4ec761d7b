package ws

import (
	"sync"

	"rps_referee/internal/logger"
	"rps_referee/internal/service"
)

// Hub tracks one live connection per player. A reconnect replaces the old
// connection; the game itself lives in the GameService and survives it.
type Hub struct {
	Games *service.GameService

	clients map[string]*Client
	mu      sync.Mutex
}

func NewHub(games *service.GameService) *Hub {
	return &Hub{
		Games:   games,
		clients: make(map[string]*Client),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.PlayerID]
	h.clients[c.PlayerID] = c
	h.mu.Unlock()

	if old != nil {
		logger.Info("ws: replacing connection", "player_id", c.PlayerID)
		_ = old.Conn.Close()
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.PlayerID] == c {
		delete(h.clients, c.PlayerID)
	}
}

// Connected returns the number of live connections.
func (h *Hub) Connected() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
