package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rps_referee/internal/domain"
	"rps_referee/internal/game"
	"rps_referee/internal/logger"
	"rps_referee/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNoActiveGame   = errors.New("no active game")
	ErrGameInProgress = errors.New("you already have an active game")
	ErrInvalidPlayer  = errors.New("invalid player id")
	ErrGameNotFound   = errors.New("game not found")
)

const recordTimeout = 5 * time.Second

// Session is one player's game plus bookkeeping.
type Session struct {
	ID         string
	PlayerID   string
	Channel    domain.Channel
	StartedAt  time.Time
	lastActive time.Time

	engine *game.Engine
	closed bool // forfeited or swept; guarded by mu
	mu     sync.Mutex
}

// SessionState is what clients see between rounds.
type SessionState struct {
	GameID         string      `json:"game_id"`
	Channel        string      `json:"channel"`
	StartedAt      time.Time   `json:"started_at"`
	AvailableMoves []game.Move `json:"available_moves"`
	game.Snapshot
}

func (s *Session) state() SessionState {
	snap := s.engine.Snapshot()
	return SessionState{
		GameID:         s.ID,
		Channel:        string(s.Channel),
		StartedAt:      s.StartedAt,
		AvailableMoves: snap.AvailableMoves(),
		Snapshot:       snap,
	}
}

// GameService owns the sessions of all connected players. Each player has at
// most one session; rounds on a session are serialized by its own mutex.
type GameService struct {
	history    repository.HistoryStore
	maxRounds  int
	ttl        time.Duration
	engineOpts []game.Option

	sessions map[string]*Session // playerID -> session
	mu       sync.RWMutex
	pending  sync.WaitGroup
	now      func() time.Time
}

type GameServiceOption func(*GameService)

// WithEngineOptions passes options to every engine the service creates.
func WithEngineOptions(opts ...game.Option) GameServiceOption {
	return func(s *GameService) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithClock overrides time.Now, for expiry tests.
func WithClock(now func() time.Time) GameServiceOption {
	return func(s *GameService) {
		s.now = now
	}
}

func NewGameService(history repository.HistoryStore, maxRounds int, ttl time.Duration, opts ...GameServiceOption) (*GameService, error) {
	if history == nil {
		history = repository.NopHistoryStore{}
	}
	if maxRounds <= 0 {
		return nil, game.ErrInvalidMaxRounds
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &GameService{
		history:   history,
		maxRounds: maxRounds,
		ttl:       ttl,
		sessions:  make(map[string]*Session),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartGame creates a new game for the player. A finished game is replaced;
// an unfinished one must be forfeited first.
func (s *GameService) StartGame(ctx context.Context, playerID string, channel domain.Channel) (SessionState, error) {
	if playerID == "" {
		return SessionState{}, ErrInvalidPlayer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[playerID]; ok {
		existing.mu.Lock()
		over := existing.engine.IsOver()
		existing.mu.Unlock()
		if !over {
			return SessionState{}, ErrGameInProgress
		}
	}

	eng, err := game.NewEngine(s.maxRounds, s.engineOpts...)
	if err != nil {
		return SessionState{}, err
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.New().String(),
		PlayerID:   playerID,
		Channel:    channel,
		StartedAt:  now,
		lastActive: now,
		engine:     eng,
	}
	s.sessions[playerID] = sess
	activeGames.Inc()

	logger.WithContext(ctx).Info("game started", "player_id", playerID, "game_id", sess.ID, "channel", channel, "max_rounds", s.maxRounds)
	return sess.state(), nil
}

func (s *GameService) session(playerID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[playerID]
	if !ok {
		return nil, ErrNoActiveGame
	}
	return sess, nil
}

// Play resolves one round for the player's game. Calling it after the game
// ended returns an error wrapping game.ErrGameOver.
func (s *GameService) Play(ctx context.Context, playerID, move string) (game.Outcome, error) {
	sess, err := s.session(playerID)
	if err != nil {
		return game.Outcome{}, err
	}
	return s.play(ctx, sess, move)
}

// play resolves a round on a session looked up earlier. The session may have
// been forfeited or swept since.
func (s *GameService) play(ctx context.Context, sess *Session, move string) (game.Outcome, error) {
	playerID := sess.PlayerID

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return game.Outcome{}, ErrNoActiveGame
	}
	out, err := sess.engine.ResolveRound(move)
	if err != nil {
		sess.mu.Unlock()
		return game.Outcome{}, fmt.Errorf("game %s: %w", sess.ID, err)
	}
	sess.lastActive = s.now()
	var snap game.Snapshot
	if out.GameOver {
		snap = sess.engine.Snapshot()
	}
	sess.mu.Unlock()

	observeRound(out)
	log := logger.WithContext(ctx).With("player_id", playerID, "game_id", sess.ID)
	log.Debug("round resolved", "round", out.Round, "status", out.Status, "winner", out.Winner)

	if out.GameOver {
		activeGames.Dec()
		gamesFinished.WithLabelValues(string(out.FinalResult)).Inc()
		log.Info("game finished", "final_result", out.FinalResult, "player_score", out.PlayerScore, "opponent_score", out.OpponentScore)
		s.record(domain.NewGameRecord(sess.ID, playerID, sess.Channel, snap, sess.StartedAt, false))
	}
	return out, nil
}

// State returns the player's current (or just finished) game.
func (s *GameService) State(playerID string) (SessionState, error) {
	sess, err := s.session(playerID)
	if err != nil {
		return SessionState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state(), nil
}

// Forfeit abandons the player's unfinished game and records it as forfeited.
func (s *GameService) Forfeit(ctx context.Context, playerID string) (SessionState, error) {
	s.mu.Lock()
	sess, ok := s.sessions[playerID]
	if !ok {
		s.mu.Unlock()
		return SessionState{}, ErrNoActiveGame
	}
	sess.mu.Lock()
	if sess.engine.IsOver() {
		sess.mu.Unlock()
		s.mu.Unlock()
		return SessionState{}, ErrNoActiveGame
	}
	st := sess.state()
	sess.closed = true
	sess.mu.Unlock()
	delete(s.sessions, playerID)
	s.mu.Unlock()

	activeGames.Dec()
	gamesFinished.WithLabelValues(string(domain.GameResultForfeit)).Inc()
	logger.WithContext(ctx).Info("game forfeited", "player_id", playerID, "game_id", sess.ID, "rounds_played", st.RoundsPlayed)

	s.record(domain.NewGameRecord(sess.ID, playerID, sess.Channel, st.Snapshot, sess.StartedAt, true))
	return st, nil
}

// History lists the player's recorded games.
func (s *GameService) History(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	return s.history.ListByPlayer(ctx, playerID, limit)
}

// Game returns one of the player's recorded games. Games recorded for other
// players are reported as not found.
func (s *GameService) Game(ctx context.Context, playerID, gameID string) (*domain.GameRecord, error) {
	rec, err := s.history.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.PlayerID != playerID {
		return nil, ErrGameNotFound
	}
	return rec, nil
}

// Stats aggregates the player's recorded games.
func (s *GameService) Stats(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	return s.history.StatsByPlayer(ctx, playerID)
}

// Ping checks the history backend.
func (s *GameService) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}

// record saves a game in the background, like the rest of the post-game work
func (s *GameService) record(rec *domain.GameRecord) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.history.Create(ctx, rec); err != nil {
			historyErrors.Inc()
			logger.Error("failed to record game", "game_id", rec.ID, "player_id", rec.PlayerID, "error", err)
		}
	}()
}

// Wait blocks until queued history writes are done.
func (s *GameService) Wait() {
	s.pending.Wait()
}

// MaxRounds is the round count of every game the service starts.
func (s *GameService) MaxRounds() int {
	return s.maxRounds
}

// ActiveGames returns the number of unfinished sessions.
func (s *GameService) ActiveGames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sess := range s.sessions {
		sess.mu.Lock()
		if !sess.engine.IsOver() {
			n++
		}
		sess.mu.Unlock()
	}
	return n
}

// Run sweeps idle sessions until ctx is done.
func (s *GameService) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

// cleanupExpired drops sessions idle for longer than the TTL
func (s *GameService) cleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for playerID, sess := range s.sessions {
		sess.mu.Lock()
		expired := now.Sub(sess.lastActive) > s.ttl
		over := sess.engine.IsOver()
		if expired {
			sess.closed = true
		}
		sess.mu.Unlock()

		if expired {
			delete(s.sessions, playerID)
			if !over {
				activeGames.Dec()
			}
			removed++
			logger.Info("cleaned up idle game", "player_id", playerID, "game_id", sess.ID, "finished", over)
		}
	}
	return removed
}
