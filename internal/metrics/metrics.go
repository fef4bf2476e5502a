package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"schema-expander/internal/diagnostic"
	"schema-expander/internal/pointer"
)

const namespace = "schema_expander"

// Metrics records expansion passes. It implements expand.Observer.
type Metrics struct {
	passes      prometheus.Counter
	documents   *prometheus.CounterVec
	merges      *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Number of expansion passes run.",
		}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_expanded_total",
			Help:      "Number of top-level documents expanded, by class.",
		}, []string{"class"}),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ancestor_merges_total",
			Help:      "Number of ancestors merged into a document, by ancestor class.",
		}, []string{"class"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Number of diagnostics reported, by code and severity.",
		}, []string{"code", "severity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of expansion passes.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.passes, m.documents, m.merges, m.diagnostics, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}

	return m, nil
}

// PassStarted counts a pass.
func (m *Metrics) PassStarted() {
	m.passes.Inc()
}

// PassFinished observes the pass duration.
func (m *Metrics) PassFinished(elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
}

// DocumentExpanded counts one top-level document.
func (m *Metrics) DocumentExpanded(class pointer.Class) {
	m.documents.WithLabelValues(string(class)).Inc()
}

// AncestorMerged counts one merge.
func (m *Metrics) AncestorMerged(class pointer.Class) {
	m.merges.WithLabelValues(string(class)).Inc()
}

// Reported counts one diagnostic.
func (m *Metrics) Reported(d diagnostic.Diagnostic) {
	m.diagnostics.WithLabelValues(string(d.Code), d.Severity.String()).Inc()
}

// WriteTextfile writes every metric gathered by g in the text exposition
// format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
