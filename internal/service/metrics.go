package service

import (
	"rps_referee/internal/game"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	roundsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_rounds_total",
			Help: "Rounds resolved, by status and round winner",
		},
		[]string{"status", "winner"},
	)
	movesPlayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_moves_total",
			Help: "Moves played in valid rounds, by side",
		},
		[]string{"side", "move"},
	)
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_games_finished_total",
			Help: "Games that ended, by final result",
		},
		[]string{"result"},
	)
	activeGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rps_active_games",
			Help: "Unfinished games held in memory",
		},
	)
	historyErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_history_write_errors_total",
			Help: "Finished games that could not be recorded",
		},
	)
)

func init() {
	prometheus.MustRegister(roundsResolved)
	prometheus.MustRegister(movesPlayed)
	prometheus.MustRegister(gamesFinished)
	prometheus.MustRegister(activeGames)
	prometheus.MustRegister(historyErrors)
}

func observeRound(out game.Outcome) {
	roundsResolved.WithLabelValues(string(out.Status), string(out.Winner)).Inc()
	if out.Status == game.StatusOK {
		movesPlayed.WithLabelValues("player", string(out.PlayerMove)).Inc()
		movesPlayed.WithLabelValues("opponent", string(out.OpponentMove)).Inc()
	}
}
