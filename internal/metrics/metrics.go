// Package metrics exposes controller activity as Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dartscorer/internal/game"
)

const namespace = "dartscorer"

type Metrics struct {
	Throws        *prometheus.CounterVec
	Turns         *prometheus.CounterVec
	Started       *prometheus.CounterVec
	Finished      *prometheus.CounterVec
	Active        prometheus.Gauge
	ThrowsDropped prometheus.Counter
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Throws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "throws_total",
			Help:      "Accepted darts and hit signals by game and outcome.",
		}, []string{"game", "outcome"}),
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Turns ended by game and result action.",
		}, []string{"game", "action"}),
		Started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions started by game.",
		}, []string{"game"}),
		Finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Sessions finished by game.",
		}, []string{"game"}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions started but not yet finished.",
		}),
		ThrowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "throw_events_dropped_total",
			Help:      "Throw events dropped because the write buffer was full.",
		}),
	}
	reg.MustRegister(m.Throws, m.Turns, m.Started, m.Finished, m.Active, m.ThrowsDropped)
	return m
}

func (m *Metrics) ThrowAccepted(id game.GameID, outcome string) {
	m.Throws.WithLabelValues(string(id), outcome).Inc()
}

func (m *Metrics) TurnEnded(id game.GameID, action game.Action) {
	m.Turns.WithLabelValues(string(id), string(action)).Inc()
}

func (m *Metrics) SessionStarted(id game.GameID) {
	m.Started.WithLabelValues(string(id)).Inc()
	m.Active.Inc()
}

func (m *Metrics) SessionFinished(id game.GameID) {
	m.Finished.WithLabelValues(string(id)).Inc()
	m.Active.Dec()
}

// ThrowDropped counts a throw event lost to back-pressure.
func (m *Metrics) ThrowDropped() {
	m.ThrowsDropped.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
