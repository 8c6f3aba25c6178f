package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mines_games_started_total",
			Help: "Total boards created or restarted",
		},
	)
	Moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mines_moves_total",
			Help: "Total moves applied to boards",
		},
		[]string{"kind"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mines_games_finished_total",
			Help: "Total games that ended, by outcome",
		},
		[]string{"outcome"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mines_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(GamesStarted)
	prometheus.MustRegister(Moves)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(RequestDuration)
}
