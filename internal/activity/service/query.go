package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bitacora/internal/activity/metrics"
	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	"bitacora/internal/actors"
	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
	"bitacora/pkg/platform/sentinel"
)

// RecordView is an activity record decorated for consumers: the fixed human
// label for its kind and the actor's current display name.
type RecordView struct {
	models.ActivityRecord
	EventLabel string `json:"event_label"`
	ActorName  string `json:"actor_name,omitempty"`
}

// Query serves ordered activity history. Strictly read-only: it never
// mutates the store, and a failed read propagates as CodeQuery rather than
// degrading into a partial page.
type Query struct {
	store     store.Store
	directory actors.Directory
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewQuery(s store.Store, opts ...Option) *Query {
	cfg := applyOptions(opts)
	return &Query{
		store:     s,
		directory: cfg.directory,
		metrics:   cfg.metrics,
		logger:    cfg.logger,
		tracer:    otel.Tracer("bitacora/activity"),
	}
}

// ListForEntity returns the newest-first history of one entity, capped by
// the filter limit. Unknown entities yield an empty page, not an error.
func (q *Query) ListForEntity(ctx context.Context, entityType models.EntityType, entityID string, filter store.Filter) ([]RecordView, error) {
	ctx, span := q.tracer.Start(ctx, "activity.list_for_entity",
		trace.WithAttributes(
			attribute.String("entity.type", string(entityType)),
			attribute.String("entity.id", entityID),
		))
	defer span.End()

	defer q.observe(time.Now())

	records, err := q.store.ListForEntity(ctx, entityType, entityID, filter)
	if err != nil {
		return nil, q.queryErr(ctx, err, "entity activity query failed")
	}
	return q.decorate(ctx, records), nil
}

// ListForActor returns the newest-first history of everything one actor did.
func (q *Query) ListForActor(ctx context.Context, actorID id.ActorID, filter store.Filter) ([]RecordView, error) {
	ctx, span := q.tracer.Start(ctx, "activity.list_for_actor",
		trace.WithAttributes(attribute.String("actor.id", actorID.String())))
	defer span.End()

	defer q.observe(time.Now())

	if actorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "actor id is required")
	}

	records, err := q.store.ListForActor(ctx, actorID, filter)
	if err != nil {
		return nil, q.queryErr(ctx, err, "actor activity query failed")
	}
	return q.decorate(ctx, records), nil
}

func (q *Query) queryErr(ctx context.Context, err error, message string) error {
	// Cancellation is the caller's own signal, not a storage failure.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	q.logger.ErrorContext(ctx, message, "error", err.Error())
	return dErrors.Wrap(err, dErrors.CodeQuery, message)
}

// decorate joins labels and display names. Directory misses or failures
// degrade to an empty name: the history must load even when the user record
// is gone.
func (q *Query) decorate(ctx context.Context, records []models.ActivityRecord) []RecordView {
	views := make([]RecordView, 0, len(records))
	names := make(map[id.ActorID]string, 4)

	for _, record := range records {
		view := RecordView{
			ActivityRecord: record,
			EventLabel:     record.EventKind.Label(),
		}
		if !record.ActorID.IsNil() {
			view.ActorName = q.actorName(ctx, record.ActorID, names)
		}
		views = append(views, view)
	}
	return views
}

func (q *Query) actorName(ctx context.Context, actorID id.ActorID, memo map[id.ActorID]string) string {
	if name, ok := memo[actorID]; ok {
		return name
	}

	name := ""
	if q.directory != nil {
		actor, err := q.directory.FindByID(ctx, actorID)
		switch {
		case err == nil:
			name = actor.DisplayName()
		case errors.Is(err, sentinel.ErrNotFound):
			// Deleted user; keep the record renderable.
		default:
			q.logger.WarnContext(ctx, "actor lookup failed",
				"actor_id", actorID.String(),
				"error", err.Error(),
			)
		}
	}

	memo[actorID] = name
	return name
}

func (q *Query) observe(start time.Time) {
	if q.metrics != nil {
		q.metrics.QueryDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}
}
