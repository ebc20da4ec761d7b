package ws

// client → server
type MovePayload struct {
	Move *string `json:"move"`
}

// server → client. "started" and "state" carry service.SessionState,
// "result" carries game.Outcome.
type ReadyPayload struct {
	PlayerID string `json:"player_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
