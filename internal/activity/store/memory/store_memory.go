// Package memory provides the in-memory activity store used by unit tests
// and single-process development mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	id "bitacora/pkg/domain"
)

type entityKey struct {
	entityType models.EntityType
	entityID   string
}

type entry struct {
	record models.ActivityRecord
	seq    uint64
}

// InMemory is a mutex-guarded append-only log keyed by entity, with a
// secondary index by actor. A monotonic sequence number breaks CreatedAt
// ties so append order is always observable.
type InMemory struct {
	mu       sync.RWMutex
	seq      uint64
	byEntity map[entityKey][]entry
	byActor  map[id.ActorID][]entry
}

func NewInMemory() *InMemory {
	return &InMemory{
		byEntity: make(map[entityKey][]entry),
		byActor:  make(map[id.ActorID][]entry),
	}
}

// Clear drops all records. Test helper.
func (s *InMemory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEntity = make(map[entityKey][]entry)
	s.byActor = make(map[id.ActorID][]entry)
	s.seq = 0
}

func (s *InMemory) Append(ctx context.Context, record *models.ActivityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e := entry{record: *record, seq: s.seq}

	key := entityKey{entityType: record.EntityType, entityID: record.EntityID}
	s.byEntity[key] = append(s.byEntity[key], e)
	if !record.ActorID.IsNil() {
		s.byActor[record.ActorID] = append(s.byActor[record.ActorID], e)
	}
	return nil
}

func (s *InMemory) ListForEntity(ctx context.Context, entityType models.EntityType, entityID string, filter store.Filter) ([]models.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entries := s.byEntity[entityKey{entityType: entityType, entityID: entityID}]
	snapshot := append([]entry(nil), entries...)
	s.mu.RUnlock()

	return collect(snapshot, filter), nil
}

func (s *InMemory) ListForActor(ctx context.Context, actorID id.ActorID, filter store.Filter) ([]models.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snapshot := append([]entry(nil), s.byActor[actorID]...)
	s.mu.RUnlock()

	return collect(snapshot, filter), nil
}

// collect sorts newest-first with the sequence tiebreak, applies the filter
// restrictions, and truncates to the effective limit.
func collect(entries []entry, filter store.Filter) []models.ActivityRecord {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.record.CreatedAt.Equal(b.record.CreatedAt) {
			return a.record.CreatedAt.After(b.record.CreatedAt)
		}
		return a.seq > b.seq
	})

	limit := filter.EffectiveLimit()
	records := make([]models.ActivityRecord, 0, limit)
	for _, e := range entries {
		if !filter.Matches(&e.record) {
			continue
		}
		records = append(records, e.record)
		if len(records) == limit {
			break
		}
	}
	return records
}
