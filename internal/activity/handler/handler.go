// Package handler wires the activity endpoints to the recorder and query
// services. Reads are authenticated panel sessions; writes come from
// backend reporters holding the API key.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bitacora/internal/activity/models"
	"bitacora/internal/activity/service"
	"bitacora/internal/activity/store"
	"bitacora/internal/platform/middleware"
	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
	"bitacora/pkg/platform/httputil"
	"bitacora/pkg/requestcontext"
)

// Recorder defines the interface for appending activity records.
type Recorder interface {
	Record(ctx context.Context, input service.RecordInput) (*models.ActivityRecord, error)
}

// Query defines the interface for reading activity history.
type Query interface {
	ListForEntity(ctx context.Context, entityType models.EntityType, entityID string, filter store.Filter) ([]service.RecordView, error)
	ListForActor(ctx context.Context, actorID id.ActorID, filter store.Filter) ([]service.RecordView, error)
}

// Handler wires activity endpoints to the activity services.
type Handler struct {
	recorder     Recorder
	query        Query
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
	apiKeyHash   string
}

// New constructs an activity handler with its dependencies.
func New(recorder Recorder, query Query, logger *slog.Logger, jwtValidator middleware.JWTValidator, apiKeyHash string) *Handler {
	return &Handler{
		recorder:     recorder,
		query:        query,
		logger:       logger,
		jwtValidator: jwtValidator,
		apiKeyHash:   apiKeyHash,
	}
}

// Register mounts the activity routes with their middleware chains.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestMetadata)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/activity/entities/{entityType}/{entityID}", h.handleListForEntity)
		r.Get("/activity/actors/{actorID}", h.handleListForActor)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestMetadata)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAPIKey(h.apiKeyHash, h.logger))
		r.Post("/activity/records", h.handleRecord)
	})
}

// handleListForEntity handles GET /activity/entities/{entityType}/{entityID}.
func (h *Handler) handleListForEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	entityType, ok := models.ParseEntityType(chi.URLParam(r, "entityType"))
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalidInput,
			"unknown entity type %q", chi.URLParam(r, "entityType")))
		return
	}
	entityID := chi.URLParam(r, "entityID")

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid history filter",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	views, err := h.query.ListForEntity(ctx, entityType, entityID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "entity history listing failed",
			"request_id", requestID,
			"entity_type", string(entityType),
			"entity_id", entityID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromViews(views, requestcontext.Now(ctx)))
}

// handleListForActor handles GET /activity/actors/{actorID}.
func (h *Handler) handleListForActor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	actorID, err := id.ParseActorID(chi.URLParam(r, "actorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid history filter",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	views, err := h.query.ListForActor(ctx, actorID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "actor history listing failed",
			"request_id", requestID,
			"actor_id", actorID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromViews(views, requestcontext.Now(ctx)))
}

// handleRecord handles POST /activity/records.
func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	entityType, err := req.ParsedEntityType()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actorID, err := req.ParsedActorID()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	before, after := req.ParsedSnapshots(entityType)

	record, err := h.recorder.Record(ctx, service.RecordInput{
		EntityType:  entityType,
		EntityID:    req.EntityID,
		EventKind:   models.EventKind(req.EventKind),
		ActorID:     actorID,
		Changes:     req.ParsedChanges(),
		Before:      before,
		After:       after,
		Description: req.Description,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "activity recording failed",
			"request_id", requestID,
			"entity_type", string(entityType),
			"entity_id", req.EntityID,
			"event_kind", req.EventKind,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record, requestcontext.Now(ctx)))
}
