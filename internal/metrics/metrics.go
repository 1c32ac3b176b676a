package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cognicore/sentitag/pkg/sentitag"
)

// Classification outcomes.
const (
	OutcomeMatched = "matched"
	OutcomeNeutral = "neutral"
	OutcomeInvalid = "invalid"
)

// Classification Metrics
var (
	// MessagesClassifiedTotal counts classified messages by origin (watch, http) and outcome
	MessagesClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentitag_messages_classified_total",
			Help: "Total classified messages by origin and outcome",
		},
		[]string{"origin", "outcome"},
	)

	// CategoryHitsTotal counts how often each category was triggered
	CategoryHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentitag_category_hits_total",
			Help: "Total category hits by category",
		},
		[]string{"category"},
	)
)

// Watcher Metrics
var (
	// PollDuration tracks one watcher poll, source read through reactions
	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentitag_poll_duration_seconds",
			Help:    "Watcher poll duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
		},
	)

	// PollErrorsTotal counts failed polls by stage (source, classify, store, sink)
	PollErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentitag_poll_errors_total",
			Help: "Total failed watcher polls by stage",
		},
		[]string{"stage"},
	)

	// ReactionsFiredTotal counts fired reactions by category
	ReactionsFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentitag_reactions_fired_total",
			Help: "Total fired reactions by category",
		},
		[]string{"category"},
	)
)

// ObserveResult records one classification.
func ObserveResult(origin string, res sentitag.Result) {
	if res.IsNeutral() {
		MessagesClassifiedTotal.WithLabelValues(origin, OutcomeNeutral).Inc()
		return
	}
	MessagesClassifiedTotal.WithLabelValues(origin, OutcomeMatched).Inc()
	for _, c := range res.Categories() {
		CategoryHitsTotal.WithLabelValues(string(c)).Inc()
	}
}

// ObserveInvalid records input that could not be classified.
func ObserveInvalid(origin string) {
	MessagesClassifiedTotal.WithLabelValues(origin, OutcomeInvalid).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
