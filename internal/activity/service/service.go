// Package service orchestrates activity recording and retrieval.
//
// Recorder owns the write path: build the record, append it fail-closed,
// then fan out to best-effort sinks. Query owns the read path: ordered,
// bounded pages with actor display names joined in. Neither holds state
// beyond its collaborators; the store is the single shared resource.
package service

import (
	"log/slog"

	"bitacora/internal/activity/metrics"
	"bitacora/internal/activity/models"
	"bitacora/internal/actors"
)

// RecordSink receives successfully appended records for best-effort fan-out
// (the Kafka mirror in production). Implementations must not block and must
// never fail the append.
type RecordSink interface {
	Offer(record *models.ActivityRecord)
}

type serviceConfig struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	mirror    RecordSink
	directory actors.Directory
}

// Option configures Recorder and Query construction.
type Option func(*serviceConfig)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

// WithMetrics sets the activity metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

// WithMirror sets the best-effort record sink fed after each append.
func WithMirror(sink RecordSink) Option {
	return func(cfg *serviceConfig) { cfg.mirror = sink }
}

// WithDirectory sets the actor directory used to resolve display names.
func WithDirectory(directory actors.Directory) Option {
	return func(cfg *serviceConfig) { cfg.directory = directory }
}

func applyOptions(opts []Option) *serviceConfig {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}
