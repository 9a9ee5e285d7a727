package audit

import (
	"context"
	"sync"

	"attesta/internal/domain"
)

// InMemoryStore keeps the event trail in memory, grouped per presentation.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.PresentationID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.PresentationID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.PresentationID] = append(s.events[event.PresentationID], event)
	return nil
}

func (s *InMemoryStore) ListByPresentation(_ context.Context, id domain.PresentationID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[id]...), nil
}
