package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rps_referee/internal/logger"
	"rps_referee/internal/ws"

	"github.com/gorilla/websocket"
)

// Plays one game against a running server: guest login, then moves over /ws.
func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	moves := flag.String("moves", "rock,bomb,paper", "comma-separated moves, one per round")
	flag.Parse()

	token, playerID, err := guestLogin(*addr)
	if err != nil {
		logger.Fatal("guest login failed", "error", err)
	}
	logger.Info("logged in", "player_id", playerID)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: "token=" + url.QueryEscape(token)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Fatal("dial failed", "error", err)
	}
	defer conn.Close()

	// started for a new game, state when resuming
	if _, err := waitFor(conn, ws.MsgStarted, ws.MsgState); err != nil {
		logger.Fatal("no game on connect", "error", err)
	}

	for _, m := range strings.Split(*moves, ",") {
		msg := map[string]any{"type": ws.MsgMove, "payload": map[string]string{"move": strings.TrimSpace(m)}}
		if err := conn.WriteJSON(msg); err != nil {
			logger.Fatal("write failed", "error", err)
		}
		env, err := waitFor(conn, ws.MsgResult, ws.MsgError)
		if err != nil {
			logger.Fatal("no result", "error", err)
		}
		fmt.Printf("%s -> %s\n", m, env.Payload)
		if env.Type == ws.MsgError {
			break
		}
		var out struct {
			GameOver bool `json:"game_over"`
		}
		_ = json.Unmarshal(env.Payload, &out)
		if out.GameOver {
			break
		}
	}

	logger.Info("smoke test finished")
}

func guestLogin(addr string) (token, playerID string, err error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+addr+"/api/v1/auth/guest", "application/json", nil)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var body struct {
		Token    string `json:"token"`
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", err
	}
	return body.Token, body.PlayerID, nil
}

// waitFor reads until one of the given message types arrives.
func waitFor(conn *websocket.Conn, types ...string) (ws.Envelope, error) {
	deadline := time.Now().Add(3 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for {
		var env ws.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return ws.Envelope{}, err
		}
		for _, t := range types {
			if env.Type == t {
				return env, nil
			}
		}
	}
}
