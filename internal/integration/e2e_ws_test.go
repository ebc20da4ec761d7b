package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rps_referee/internal/config"
	"rps_referee/internal/domain"
	httpserver "rps_referee/internal/http"
	"rps_referee/internal/repository"
	"rps_referee/internal/service"
	"rps_referee/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrationsToPool(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// Plays a whole game over WebSocket against the real routes and checks it
// lands in Postgres.
func TestE2E_WS_GameRecorded(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer dbp.Close()
	applyMigrationsToPool(t, dbp)

	service.InitJWT("test-secret")
	games, err := service.NewGameService(repository.NewPostgresHistoryRepository(dbp), 3, time.Hour)
	if err != nil {
		t.Fatalf("game service: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{APIRateLimit: 100, APIRateWindow: 60, GameRateLimit: 100, GameRateWindow: 60}
	httpserver.RegisterRoutes(r, games, cfg, "e2e")
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/auth/guest", "application/json", nil)
	if err != nil {
		t.Fatalf("guest: %v", err)
	}
	var auth struct {
		Token    string `json:"token"`
		PlayerID string `json:"player_id"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&auth)
	resp.Body.Close()
	if auth.Token == "" {
		t.Fatalf("no token issued")
	}

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=" + auth.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func(want string) ws.Envelope {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var env ws.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				t.Fatalf("waiting for %s: %v", want, err)
			}
			if env.Type == want {
				return env
			}
			if env.Type == ws.MsgError {
				t.Fatalf("server error while waiting for %s: %s", want, env.Payload)
			}
		}
	}

	read(ws.MsgStarted)

	var last struct {
		GameOver bool `json:"game_over"`
	}
	for _, move := range []string{"rock", "paper", "scissors"} {
		if err := conn.WriteJSON(map[string]any{"type": ws.MsgMove, "payload": map[string]string{"move": move}}); err != nil {
			t.Fatalf("write move: %v", err)
		}
		env := read(ws.MsgResult)
		_ = json.Unmarshal(env.Payload, &last)
	}
	if !last.GameOver {
		t.Fatalf("game not over after 3 rounds")
	}

	games.Wait()

	recs, err := repository.NewPostgresHistoryRepository(dbp).ListByPlayer(context.Background(), auth.PlayerID, 10)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(recs) != 1 || recs[0].Channel != domain.ChannelWS || len(recs[0].Rounds) != 3 {
		t.Fatalf("unexpected history: %+v", recs)
	}
}
