package audit

import (
	"context"
	"sync"

	"btocore/pkg/domain"
)

// InMemoryStore keeps audit events per actor in insertion order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.NRIC][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.NRIC][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Actor] = append(s.events[event.Actor], event)
	return nil
}

func (s *InMemoryStore) ListByActor(_ context.Context, actor domain.NRIC) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[actor]...), nil
}
