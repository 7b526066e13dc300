package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the activity module.
type Metrics struct {
	RecordsAppended *prometheus.CounterVec
	AppendFailures  prometheus.Counter
	QueryDurationMs prometheus.Histogram
	MirrorDropped   prometheus.Counter
	MirrorPublished prometheus.Counter
}

// New creates and registers the activity metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RecordsAppended: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bitacora_records_appended_total",
			Help: "Activity records appended, by event kind",
		}, []string{"event_kind"}),
		AppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bitacora_append_failures_total",
			Help: "Activity appends rejected by the store",
		}),
		QueryDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bitacora_query_duration_ms",
			Help:    "Latency of activity list queries in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
		MirrorDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bitacora_mirror_dropped_total",
			Help: "Records dropped by the Kafka mirror because its buffer was full",
		}),
		MirrorPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bitacora_mirror_published_total",
			Help: "Records successfully mirrored to Kafka",
		}),
	}
}

// IncrementAppended bumps the appended counter for one event kind.
func (m *Metrics) IncrementAppended(kind string) {
	if m == nil {
		return
	}
	m.RecordsAppended.WithLabelValues(kind).Inc()
}
