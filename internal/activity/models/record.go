package models

import (
	"reflect"
	"time"

	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
)

// EntityChange is one field-level delta inside an activity record.
//
// From and To are opaque to the whole subsystem: the store persists whatever
// the reporting service captured (primitive, string, or structured value)
// and never re-interprets it.
type EntityChange struct {
	// Field is the dotted path of the changed attribute, e.g. "address.city".
	Field string `json:"field"`
	// Label is the display name for the field, resolved at construction.
	Label string `json:"label"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// ActivityRecord is one immutable audit event.
//
// Invariants:
//   - EventKind belongs to the taxonomy of EntityType
//   - every change satisfies From != To by deep equality
//   - ActorID is nil only for system-emittable kinds
//   - never mutated or deleted after a successful append
type ActivityRecord struct {
	ID          id.ActivityID  `json:"id"`
	EntityType  EntityType     `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	EventKind   EventKind      `json:"event_kind"`
	ActorID     id.ActorID     `json:"actor_id"`
	Changes     []EntityChange `json:"changes"`
	Description string         `json:"description,omitempty"`
	// Device is a short "Browser on OS" summary, captured for identity
	// events only.
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsSystemEvent reports whether the record was emitted without a human actor.
func (r *ActivityRecord) IsSystemEvent() bool {
	return r.ActorID.IsNil()
}

// NewRecord builds a fully-formed record with a fresh ID and the supplied
// creation instant. Persistence is a separate explicit step (Store.Append).
func NewRecord(
	entityType EntityType,
	entityID string,
	kind EventKind,
	actorID id.ActorID,
	changes []EntityChange,
	description string,
	now time.Time,
) (*ActivityRecord, error) {
	if _, ok := ParseEntityType(string(entityType)); !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown entity type %q", entityType)
	}
	if entityID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entity id cannot be empty")
	}
	if !kind.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidEventKind, "unknown event kind %q", kind)
	}
	if !kind.AllowsEntity(entityType) {
		return nil, dErrors.Newf(dErrors.CodeInvalidEventKind,
			"event kind %q is not valid for entity type %q", kind, entityType)
	}
	if actorID.IsNil() && !kind.AllowsSystemActor() {
		return nil, dErrors.Newf(dErrors.CodeInvalidEventKind,
			"event kind %q requires an actor", kind)
	}
	if err := validateChanges(changes); err != nil {
		return nil, err
	}

	return &ActivityRecord{
		ID:          id.NewActivityID(),
		EntityType:  entityType,
		EntityID:    entityID,
		EventKind:   kind,
		ActorID:     actorID,
		Changes:     changes,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// validateChanges rejects no-op deltas so they never reach the store.
func validateChanges(changes []EntityChange) error {
	for _, change := range changes {
		if change.Field == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "change field cannot be empty")
		}
		if reflect.DeepEqual(change.From, change.To) {
			return dErrors.Newf(dErrors.CodeInvalidInput,
				"change for field %q has equal from/to values", change.Field)
		}
	}
	return nil
}
