package ws

import "encoding/json"

const (
	// client - server
	MsgMove    = "move"
	MsgNewGame = "new_game"
	MsgState   = "state"
	MsgPing    = "ping"

	// server - client
	MsgReady   = "ready"
	MsgStarted = "started"
	MsgResult  = "result"
	MsgError   = "error"
	MsgPong    = "pong"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
