// Package store defines the append-only persistence boundary for activity
// records.
//
// The store is the only shared mutable resource in the subsystem. It exposes
// Append and the List queries and nothing else: history is corrected by
// appending a corrective record, never by editing it.
package store

import (
	"context"

	"bitacora/internal/activity/models"
	id "bitacora/pkg/domain"
)

// DefaultLimit caps list results when the caller does not ask for less.
const DefaultLimit = 100

// Filter restricts and bounds a list query.
type Filter struct {
	// Kinds restricts to the given event kinds; empty means all.
	Kinds []models.EventKind
	// ActorID restricts to one actor; nil UUID means any.
	ActorID id.ActorID
	// Limit bounds the page size; values outside (0, DefaultLimit] collapse
	// to DefaultLimit.
	Limit int
}

// EffectiveLimit resolves the page size the store must honor.
func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > DefaultLimit {
		return DefaultLimit
	}
	return f.Limit
}

// Matches reports whether a record passes the kind and actor restrictions.
// Limit handling stays with the store, which sees records in order.
func (f Filter) Matches(record *models.ActivityRecord) bool {
	if !f.ActorID.IsNil() && record.ActorID != f.ActorID {
		return false
	}
	if len(f.Kinds) == 0 {
		return true
	}
	for _, kind := range f.Kinds {
		if record.EventKind == kind {
			return true
		}
	}
	return false
}

// Store is the append-only activity log.
//
// Ordering guarantee: records for one entity are observable in append order;
// both List methods return newest-first by CreatedAt with the insertion
// sequence breaking ties. Implementations must write each record atomically:
// a cancelled append never leaves a partial record visible.
type Store interface {
	Append(ctx context.Context, record *models.ActivityRecord) error
	ListForEntity(ctx context.Context, entityType models.EntityType, entityID string, filter Filter) ([]models.ActivityRecord, error)
	ListForActor(ctx context.Context, actorID id.ActorID, filter Filter) ([]models.ActivityRecord, error)
}
