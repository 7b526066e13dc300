// Package mirror republishes appended activity records to Kafka for
// downstream consumers (reporting exports, compliance archiving).
//
// The mirror is strictly best-effort and sits outside the append path: the
// store remains the source of truth, Offer never blocks the caller, and a
// full buffer drops the oldest pending record rather than stalling writes.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	activitymetrics "bitacora/internal/activity/metrics"
	"bitacora/internal/activity/models"
)

const defaultBufferSize = 1024

// Producer is the slice of the franz-go client the mirror needs.
type Producer interface {
	ProduceSync(ctx context.Context, records ...*kgo.Record) kgo.ProduceResults
}

// Mirror consumes appended records from a bounded inbox and produces them to
// a Kafka topic, keyed by entity so per-entity order survives partitioning.
type Mirror struct {
	producer Producer
	topic    string
	inbox    chan models.ActivityRecord
	logger   *slog.Logger
	metrics  *activitymetrics.Metrics
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the logger used for publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) { m.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics *activitymetrics.Metrics) Option {
	return func(m *Mirror) { m.metrics = metrics }
}

// WithBufferSize overrides the inbox capacity.
func WithBufferSize(size int) Option {
	return func(m *Mirror) {
		if size > 0 {
			m.inbox = make(chan models.ActivityRecord, size)
		}
	}
}

// New creates a mirror publishing to the given topic.
func New(producer Producer, topic string, opts ...Option) *Mirror {
	m := &Mirror{
		producer: producer,
		topic:    topic,
		inbox:    make(chan models.ActivityRecord, defaultBufferSize),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Offer enqueues a record for mirroring without blocking. When the buffer is
// full the oldest pending record is dropped to make room; drops are counted,
// not surfaced, because mirroring must never fail an append.
func (m *Mirror) Offer(record *models.ActivityRecord) {
	for {
		select {
		case m.inbox <- *record:
			return
		default:
		}
		select {
		case <-m.inbox:
			if m.metrics != nil {
				m.metrics.MirrorDropped.Inc()
			}
		default:
		}
	}
}

// Run consumes the inbox until the context is cancelled. Publish failures
// are logged and counted; the record is dropped, not retried, because the
// durable store already holds it.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case record := <-m.inbox:
			m.publish(ctx, &record)
		}
	}
}

func (m *Mirror) publish(ctx context.Context, record *models.ActivityRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to marshal activity record for mirror",
			"record_id", record.ID.String(),
			"error", err.Error(),
		)
		return
	}

	kafkaRecord := &kgo.Record{
		Topic: m.topic,
		Key:   []byte(fmt.Sprintf("%s/%s", record.EntityType, record.EntityID)),
		Value: payload,
	}

	if err := m.producer.ProduceSync(ctx, kafkaRecord).FirstErr(); err != nil {
		if m.metrics != nil {
			m.metrics.MirrorDropped.Inc()
		}
		m.logger.WarnContext(ctx, "failed to mirror activity record",
			"record_id", record.ID.String(),
			"topic", m.topic,
			"error", err.Error(),
		)
		return
	}

	if m.metrics != nil {
		m.metrics.MirrorPublished.Inc()
	}
}
