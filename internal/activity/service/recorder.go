package service

import (
	"context"
	"log/slog"

	"bitacora/internal/activity/device"
	"bitacora/internal/activity/diff"
	"bitacora/internal/activity/metrics"
	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
	"bitacora/pkg/requestcontext"
)

// Recorder builds and persists activity records. Appends are fail-closed:
// if the store rejects the write the caller gets the error and must decide
// whether to roll back, queue a retry, or log and move on. The recorder
// itself never buffers or retries.
type Recorder struct {
	store   store.Store
	mirror  RecordSink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// RecordInput describes one business event to record.
//
// Callers supply either a precomputed change list or a before/after snapshot
// pair; with snapshots the recorder runs the diff itself. Supplying both is
// rejected so there is exactly one source of truth per record.
type RecordInput struct {
	EntityType  models.EntityType
	EntityID    string
	EventKind   models.EventKind
	ActorID     id.ActorID
	Changes     []models.EntityChange
	Before      *diff.Snapshot
	After       *diff.Snapshot
	Description string
}

func NewRecorder(s store.Store, opts ...Option) *Recorder {
	cfg := applyOptions(opts)
	return &Recorder{
		store:   s,
		mirror:  cfg.mirror,
		metrics: cfg.metrics,
		logger:  cfg.logger,
	}
}

// Record validates, constructs, and appends one activity record, returning
// it as persisted. The record only reaches the mirror after the store
// accepted it.
func (r *Recorder) Record(ctx context.Context, input RecordInput) (*models.ActivityRecord, error) {
	changes, err := r.resolveChanges(input)
	if err != nil {
		return nil, err
	}

	record, err := models.NewRecord(
		input.EntityType,
		input.EntityID,
		input.EventKind,
		input.ActorID,
		changes,
		input.Description,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if isIdentityKind(input.EventKind) {
		record.Device = device.Summarize(requestcontext.UserAgent(ctx))
	}

	if err := r.store.Append(ctx, record); err != nil {
		if r.metrics != nil {
			r.metrics.AppendFailures.Inc()
		}
		r.logger.ErrorContext(ctx, "activity append failed",
			"request_id", requestcontext.RequestID(ctx),
			"entity_type", string(record.EntityType),
			"entity_id", record.EntityID,
			"event_kind", string(record.EventKind),
			"error", err.Error(),
		)
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "activity record was not persisted")
	}

	if r.metrics != nil {
		r.metrics.IncrementAppended(string(record.EventKind))
	}
	if r.mirror != nil {
		r.mirror.Offer(record)
	}

	r.logger.InfoContext(ctx, "activity recorded",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", record.ID.String(),
		"entity_type", string(record.EntityType),
		"entity_id", record.EntityID,
		"event_kind", string(record.EventKind),
		"change_count", len(record.Changes),
	)
	return record, nil
}

// resolveChanges picks the single source of change data and normalizes it.
func (r *Recorder) resolveChanges(input RecordInput) ([]models.EntityChange, error) {
	hasSnapshots := input.Before != nil || input.After != nil

	if hasSnapshots && len(input.Changes) > 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest,
			"supply either a change list or snapshots, not both")
	}
	if !hasSnapshots {
		return input.Changes, nil
	}
	if input.Before == nil || input.After == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest,
			"both before and after snapshots are required")
	}
	if input.Before.EntityID != input.EntityID || input.Before.EntityType != input.EntityType {
		return nil, dErrors.Newf(dErrors.CodeShapeMismatch,
			"snapshots describe %s/%s but the event targets %s/%s",
			input.Before.EntityType, input.Before.EntityID, input.EntityType, input.EntityID)
	}
	return diff.ForEntity(*input.Before, *input.After)
}

func isIdentityKind(kind models.EventKind) bool {
	switch kind {
	case models.EventLogin, models.EventLogout, models.EventPasswordChanged:
		return true
	}
	return false
}
