package actors

import (
	"context"
	"sync"

	id "bitacora/pkg/domain"
	"bitacora/pkg/platform/sentinel"
)

// InMemory is the directory used by unit tests and dev mode.
type InMemory struct {
	mu     sync.RWMutex
	actors map[id.ActorID]Actor
}

func NewInMemory() *InMemory {
	return &InMemory{actors: make(map[id.ActorID]Actor)}
}

// Put inserts or replaces an actor. Test and seeding helper.
func (s *InMemory) Put(actor Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[actor.ID] = actor
}

// Clear drops all actors. Test helper.
func (s *InMemory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors = make(map[id.ActorID]Actor)
}

func (s *InMemory) FindByID(_ context.Context, actorID id.ActorID) (*Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actor, ok := s.actors[actorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &actor, nil
}
