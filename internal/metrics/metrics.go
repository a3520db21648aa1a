// Package metrics is the process-wide metrics facade. It exposes the
// counters and histograms named in the venue/strategy/execution
// interfaces without committing any component to how (or whether) they
// are exported; cmd/predengine decides whether to mount an HTTP
// /metrics handler over the returned registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Facade bundles every metric the core pipeline emits.
type Facade struct {
	Registry *prometheus.Registry

	AdapterEventsTotal       *prometheus.CounterVec
	AdapterEventLatencyMs    *prometheus.HistogramVec
	StrategySignalsTotal     *prometheus.CounterVec
	StrategySignalEdge       *prometheus.HistogramVec
	ExecutionFillsTotal      *prometheus.CounterVec
	ExecutionRejectionsTotal *prometheus.CounterVec
	ExecutionSignalToFillUs  *prometheus.HistogramVec
	ExecutionE2ELatencyUs    *prometheus.HistogramVec
}

// New builds a Facade with all metrics registered against a fresh
// registry.
func New() *Facade {
	reg := prometheus.NewRegistry()

	f := &Facade{
		Registry: reg,
		AdapterEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adapter_events_total",
			Help: "Market events emitted by a venue adapter.",
		}, []string{"venue", "event_type"}),
		AdapterEventLatencyMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adapter_event_latency_ms",
			Help:    "Latency from exchange timestamp to receive instant.",
			Buckets: prometheus.DefBuckets,
		}, []string{"venue", "event_type"}),
		StrategySignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "strategy_signals_total",
			Help: "Trade signals emitted by a strategy.",
		}, []string{"strategy", "venue"}),
		StrategySignalEdge: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "strategy_signal_edge",
			Help:    "Edge fraction of emitted trade signals.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1},
		}, []string{"strategy"}),
		ExecutionFillsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "execution_fills_total",
			Help: "Fully filled execution reports.",
		}, []string{"strategy", "executor"}),
		ExecutionRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "execution_rejections_total",
			Help: "Execution reports containing a rejected leg.",
		}, []string{"strategy", "executor"}),
		ExecutionSignalToFillUs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "execution_signal_to_fill_us",
			Help:    "Microseconds from signal generation to execution completion.",
			Buckets: prometheus.ExponentialBuckets(100, 2, 12),
		}, []string{"strategy"}),
		ExecutionE2ELatencyUs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "execution_e2e_latency_us",
			Help:    "Microseconds from WS receive to execution completion.",
			Buckets: prometheus.ExponentialBuckets(100, 2, 12),
		}, []string{"strategy"}),
	}

	reg.MustRegister(
		f.AdapterEventsTotal,
		f.AdapterEventLatencyMs,
		f.StrategySignalsTotal,
		f.StrategySignalEdge,
		f.ExecutionFillsTotal,
		f.ExecutionRejectionsTotal,
		f.ExecutionSignalToFillUs,
		f.ExecutionE2ELatencyUs,
	)

	return f
}
