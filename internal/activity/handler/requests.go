package handler

import (
	"net/url"
	"strconv"
	"strings"

	"bitacora/internal/activity/diff"
	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
)

// RecordRequest is the HTTP request for POST /activity/records.
//
// Changes and the snapshot pair are mutually exclusive; the service rejects
// requests carrying both.
type RecordRequest struct {
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	EventKind   string          `json:"event_kind"`
	ActorID     string          `json:"actor_id,omitempty"`
	Changes     []ChangeRequest `json:"changes,omitempty"`
	Before      map[string]any  `json:"before,omitempty"`
	After       map[string]any  `json:"after,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ChangeRequest is one precomputed field delta in a RecordRequest.
type ChangeRequest struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// ParsedEntityType validates the entity type segment.
func (r *RecordRequest) ParsedEntityType() (models.EntityType, error) {
	entityType, ok := models.ParseEntityType(r.EntityType)
	if !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown entity type %q", r.EntityType)
	}
	return entityType, nil
}

// ParsedActorID parses the optional actor ID. Empty means a system event;
// whether the event kind permits that is decided by the service.
func (r *RecordRequest) ParsedActorID() (id.ActorID, error) {
	if r.ActorID == "" {
		return id.ActorID{}, nil
	}
	return id.ParseActorID(r.ActorID)
}

// ParsedChanges resolves labels for the precomputed change list.
func (r *RecordRequest) ParsedChanges() []models.EntityChange {
	if len(r.Changes) == 0 {
		return nil
	}
	changes := make([]models.EntityChange, 0, len(r.Changes))
	for _, change := range r.Changes {
		changes = append(changes, models.EntityChange{
			Field: change.Field,
			Label: models.FieldLabel(change.Field),
			From:  change.From,
			To:    change.To,
		})
	}
	return changes
}

// ParsedSnapshots builds the before/after snapshot pair when present.
func (r *RecordRequest) ParsedSnapshots(entityType models.EntityType) (before, after *diff.Snapshot) {
	if r.Before == nil && r.After == nil {
		return nil, nil
	}
	if r.Before != nil {
		before = &diff.Snapshot{EntityType: entityType, EntityID: r.EntityID, Fields: r.Before}
	}
	if r.After != nil {
		after = &diff.Snapshot{EntityType: entityType, EntityID: r.EntityID, Fields: r.After}
	}
	return before, after
}

// parseFilter builds a store filter from list query parameters:
// limit (positive integer), kinds (comma-separated event kinds), and
// actor_id for entity listings.
func parseFilter(query url.Values) (store.Filter, error) {
	filter := store.Filter{}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, dErrors.Newf(dErrors.CodeInvalidInput, "invalid limit %q", raw)
		}
		filter.Limit = limit
	}

	if raw := query.Get("kinds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			kind := models.EventKind(strings.TrimSpace(part))
			if !kind.Valid() {
				return filter, dErrors.Newf(dErrors.CodeInvalidEventKind, "unknown event kind %q", kind)
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}

	if raw := query.Get("actor_id"); raw != "" {
		actorID, err := id.ParseActorID(raw)
		if err != nil {
			return filter, err
		}
		filter.ActorID = actorID
	}

	return filter, nil
}
