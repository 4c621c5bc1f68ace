package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records pricing and settlement engine activity.
type EngineMetrics struct {
	quotes            *prometheus.CounterVec
	settlements       *prometheus.CounterVec
	integrityFailures prometheus.Counter
	configResolutions *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quotes_total",
		Help: "Pricing quotes computed, labeled by outcome.",
	}, []string{"outcome"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Settlement splits recorded, labeled by outcome.",
	}, []string{"outcome"})
	integrityFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_integrity_failures_total",
		Help: "Settlement splits rejected by the exact-sum invariant check.",
	})
	configResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fee_config_resolutions_total",
		Help: "Fee configuration resolutions, labeled by source.",
	}, []string{"source"})
	reg.MustRegister(quotes, settlements, integrityFailures, configResolutions)
	return &EngineMetrics{
		quotes:            quotes,
		settlements:       settlements,
		integrityFailures: integrityFailures,
		configResolutions: configResolutions,
	}
}

// IncQuote counts a computed quote with the given outcome (ok/error).
func (e *EngineMetrics) IncQuote(outcome string) {
	if e == nil || e.quotes == nil {
		return
	}
	e.quotes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSettlement counts a recorded settlement with the given outcome.
func (e *EngineMetrics) IncSettlement(outcome string) {
	if e == nil || e.settlements == nil {
		return
	}
	e.settlements.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncIntegrityFailure counts a split that failed the exact-sum check.
func (e *EngineMetrics) IncIntegrityFailure() {
	if e == nil || e.integrityFailures == nil {
		return
	}
	e.integrityFailures.Inc()
}

// IncConfigResolution counts a resolver hit by source (override/default/cache).
func (e *EngineMetrics) IncConfigResolution(source string) {
	if e == nil || e.configResolutions == nil {
		return
	}
	e.configResolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
