// Package metrics exposes game counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the services layer reports to
type Recorder interface {
	GameStarted(game string, participants int)
	GameSettled(game string)
	LadderPath(length float64)
}

// Metrics holds the collectors registered for one server
type Metrics struct {
	gamesTotal       *prometheus.CounterVec
	gameParticipants *prometheus.HistogramVec
	ladderPathLength prometheus.Histogram
	gamesInFlight    prometheus.Gauge
	gatherer         prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		gamesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "luckydraw",
			Name:      "games_total",
			Help:      "Games started, by game type.",
		}, []string{"game"}),
		gameParticipants: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "luckydraw",
			Name:      "game_participants",
			Help:      "Eligible participants per game.",
			Buckets:   []float64{2, 5, 10, 20, 50, 100, 250},
		}, []string{"game"}),
		ladderPathLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "luckydraw",
			Name:      "ladder_path_length",
			Help:      "Total length of traced ladder paths.",
			Buckets:   prometheus.LinearBuckets(25, 5, 8),
		}),
		gamesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "luckydraw",
			Name:      "games_in_flight",
			Help:      "Games currently animating.",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) GameStarted(game string, participants int) {
	m.gamesTotal.WithLabelValues(game).Inc()
	m.gameParticipants.WithLabelValues(game).Observe(float64(participants))
	m.gamesInFlight.Inc()
}

func (m *Metrics) GameSettled(game string) {
	m.gamesInFlight.Dec()
}

func (m *Metrics) LadderPath(length float64) {
	m.ladderPathLength.Observe(length)
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything
type Nop struct{}

func (Nop) GameStarted(string, int) {}
func (Nop) GameSettled(string)      {}
func (Nop) LadderPath(float64)      {}

var (
	_ Recorder = (*Metrics)(nil)
	_ Recorder = Nop{}
)
