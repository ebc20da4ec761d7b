package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"rps_referee/internal/domain"
	"rps_referee/internal/game"
	"rps_referee/internal/logger"
	"rps_referee/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 64
)

type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte

	hub *Hub
	log *slog.Logger
	ctx context.Context
}

func NewClient(playerID string, conn *websocket.Conn, hub *Hub) *Client {
	l := logger.With("player_id", playerID, "channel", domain.ChannelWS)
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		hub:      hub,
		log:      l,
		ctx:      logger.NewContext(context.Background(), l),
	}
}

// Run serves the connection until it closes. The player's game is started,
// or resumed if one is already running.
func (c *Client) Run() {
	go c.writePump()

	c.hub.register(c)
	c.send(MsgReady, ReadyPayload{PlayerID: c.PlayerID})
	c.startOrResume()

	c.readPump()
}

func (c *Client) startOrResume() {
	st, err := c.hub.Games.StartGame(c.ctx, c.PlayerID, domain.ChannelWS)
	if errors.Is(err, service.ErrGameInProgress) {
		if st, err = c.hub.Games.State(c.PlayerID); err == nil {
			c.send(MsgState, st)
			return
		}
	}
	if err != nil {
		c.sendError(err)
		return
	}
	c.send(MsgStarted, st)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		close(c.Send)
		c.log.Debug("ws: disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws: read error", "error", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("ws: write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendErrorMessage("malformed message")
		return
	}

	switch env.Type {
	case MsgMove:
		var p MovePayload
		if len(env.Payload) == 0 || json.Unmarshal(env.Payload, &p) != nil || p.Move == nil {
			c.sendErrorMessage(`move payload must be {"move": "..."}`)
			return
		}
		out, err := c.hub.Games.Play(c.ctx, c.PlayerID, *p.Move)
		if err != nil {
			c.sendError(err)
			return
		}
		c.send(MsgResult, out)

	case MsgNewGame:
		st, err := c.hub.Games.StartGame(c.ctx, c.PlayerID, domain.ChannelWS)
		if err != nil {
			c.sendError(err)
			return
		}
		c.send(MsgStarted, st)

	case MsgState:
		st, err := c.hub.Games.State(c.PlayerID)
		if err != nil {
			c.sendError(err)
			return
		}
		c.send(MsgState, st)

	case MsgPing:
		c.send(MsgPong, nil)

	default:
		c.sendErrorMessage("unknown message type: " + env.Type)
	}
}

func (c *Client) sendError(err error) {
	msg := err.Error()
	if errors.Is(err, game.ErrGameOver) {
		msg = "game is over, start a new one"
	}
	c.sendErrorMessage(msg)
}

func (c *Client) sendErrorMessage(msg string) {
	c.send(MsgError, ErrorPayload{Message: msg})
}

// send queues a message; a client too slow to drain its buffer is dropped.
func (c *Client) send(typ string, payload any) {
	env := Envelope{Type: typ}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			c.log.Error("ws: marshal payload", "type", typ, "error", err)
			return
		}
		env.Payload = b
	}
	b, err := json.Marshal(env)
	if err != nil {
		c.log.Error("ws: marshal envelope", "type", typ, "error", err)
		return
	}

	select {
	case c.Send <- b:
	default:
		c.log.Warn("ws: send buffer full, closing", "type", typ)
		_ = c.Conn.Close()
	}
}
