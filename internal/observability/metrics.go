package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// candidate evaluation pipeline.
type Metrics struct {
	CandidatesConsumed  prometheus.Counter
	EvaluationsProduced prometheus.Counter
	ParseErrors         prometheus.Counter
	ValidationFailures  prometheus.Counter
	DuplicatesDropped   prometheus.Counter
	Decisions           *prometheus.CounterVec // label: reason
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CandidatesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parks_etl",
			Name:      "candidates_consumed_total",
			Help:      "Total candidate records read from the source topic.",
		}),
		EvaluationsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parks_etl",
			Name:      "evaluations_produced_total",
			Help:      "Total evaluations written to the sink topic.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parks_etl",
			Name:      "parse_errors_total",
			Help:      "Total candidate payloads that could not be parsed.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parks_etl",
			Name:      "validation_failures_total",
			Help:      "Total candidates rejected by structural validation.",
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parks_etl",
			Name:      "duplicates_dropped_total",
			Help:      "Total candidates dropped by intra-batch deduplication.",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parks_etl",
			Name:      "decisions_total",
			Help:      "Merge decisions by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parks_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parks_etl",
			Name:      "batch_size",
			Help:      "Number of candidates per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parks_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-evaluate-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.CandidatesConsumed,
		m.EvaluationsProduced,
		m.ParseErrors,
		m.ValidationFailures,
		m.DuplicatesDropped,
		m.Decisions,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CandidatesConsumed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parks_etl", Name: "candidates_consumed_total"}),
		EvaluationsProduced:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parks_etl", Name: "evaluations_produced_total"}),
		ParseErrors:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parks_etl", Name: "parse_errors_total"}),
		ValidationFailures:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parks_etl", Name: "validation_failures_total"}),
		DuplicatesDropped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "parks_etl", Name: "duplicates_dropped_total"}),
		Decisions:               prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "parks_etl", Name: "decisions_total"}, []string{"reason"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parks_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "parks_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "parks_etl", Name: "batch_processing_duration_seconds"}),
	}
}
