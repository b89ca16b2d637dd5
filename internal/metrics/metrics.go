// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EntriesCreated counts saved journal entries.
	EntriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindjourney_journal_entries_created_total",
		Help: "Journal entries saved.",
	})

	// MoodsLogged counts mood check-ins by label.
	MoodsLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindjourney_mood_entries_created_total",
		Help: "Mood check-ins saved, by mood.",
	}, []string{"mood"})

	// Analyses counts mood analyses by source and outcome.
	Analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindjourney_analyses_total",
		Help: "Mood analyses performed, by source and status.",
	}, []string{"source", "status"})

	// ClassifierFallbacks counts external classifier calls that fell back to keywords.
	ClassifierFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindjourney_classifier_fallbacks_total",
		Help: "External classifier calls that fell back to keyword scoring, by reason.",
	}, []string{"reason"})

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mindjourney_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})

	// StatsSubscribers is the number of live /ws/stats connections.
	StatsSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mindjourney_stats_subscribers",
		Help: "Open live stats websocket connections.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
