package store

import (
	"context"
	"sync"
	"sync/atomic"

	"eventtracker/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore keeps events in a map keyed by event id, guarded by a
// reader/writer lock: Get and List take the shared lock and run concurrently
// with each other, Insert takes the exclusive lock. sync.RWMutex blocks new
// readers once a writer is waiting, so a continuous stream of readers cannot
// starve writers.
//
// The map starts empty, grows insert-only for the life of the process, and is
// discarded at shutdown. Events are never mutated in place and ids are never
// reassigned.
type MemoryStore struct {
	mu      sync.RWMutex
	events  map[uuid.UUID]domain.Event
	inserts atomic.Int64
}

func NewMemory() *MemoryStore {
	return &MemoryStore{events: make(map[uuid.UUID]domain.Event)}
}

// Insert assigns a fresh random identifier to the draft and stores it.
// Identifiers are 128-bit random UUIDs, so concurrent inserts never collide.
// The in-memory implementation has no resource faults and never returns an
// error.
func (s *MemoryStore) Insert(ctx context.Context, draft domain.NewEvent) (*domain.Event, error) {
	event := domain.Event{
		ID:        uuid.New(),
		EventType: draft.EventType,
		Timestamp: draft.Timestamp,
		Payload:   draft.Payload,
	}

	s.mu.Lock()
	s.events[event.ID] = event
	s.mu.Unlock()

	s.inserts.Add(1)

	return &event, nil
}

// Get returns the event stored under id, or (nil, nil) if no event with that
// id was ever inserted.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	s.mu.RLock()
	event, ok := s.events[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return &event, nil
}

// List returns every stored event matching the query. Results come back in
// map iteration order; callers must not rely on any particular ordering.
func (s *MemoryStore) List(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Event, 0, len(s.events))
	for _, event := range s.events {
		if q.Matches(event) {
			results = append(results, event)
		}
	}
	return results, nil
}

// Count reports how many events have been inserted since startup.
func (s *MemoryStore) Count() int64 {
	return s.inserts.Load()
}
