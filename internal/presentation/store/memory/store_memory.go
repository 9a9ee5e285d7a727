// Package memory is the default presentation store: a process-local map with
// per-session compare-and-swap. Unrelated sessions never contend on a shared
// lock.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

// Store keeps one entry per PresentationID plus a RequestID index pointing at
// the same entries. Entries are only ever inserted; the snapshot inside an
// entry is replaced under that entry's own lock.
//
// Both ids are unguessable and only leave the process after Save returns, so
// no caller can observe the window between the two index inserts.
type Store struct {
	byID        sync.Map // domain.PresentationID -> *entry
	byRequestID sync.Map // domain.RequestID -> *entry
}

type entry struct {
	mu sync.Mutex
	p  domain.Presentation
}

func New() *Store {
	return &Store{}
}

// Save inserts a freshly created presentation and registers both lookup keys.
func (s *Store) Save(_ context.Context, p domain.Presentation) error {
	e := &entry{p: p}
	if _, loaded := s.byID.LoadOrStore(p.ID, e); loaded {
		return fmt.Errorf("presentation %s already stored: %w", p.ID, sentinel.ErrConflict)
	}
	if _, loaded := s.byRequestID.LoadOrStore(p.RequestID, e); loaded {
		s.byID.Delete(p.ID)
		return fmt.Errorf("request id %s already stored: %w", p.RequestID, sentinel.ErrConflict)
	}
	return nil
}

// Update replaces the stored snapshot only if its state tag still equals from.
// A mismatch means another use case (or the sweeper) transitioned the session
// since the caller loaded it; the caller must surface InvalidState, never
// overwrite.
func (s *Store) Update(_ context.Context, p domain.Presentation, from domain.State) error {
	v, ok := s.byID.Load(p.ID)
	if !ok {
		return fmt.Errorf("presentation %s: %w", p.ID, sentinel.ErrNotFound)
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p.State != from {
		return fmt.Errorf("presentation %s is %s, expected %s: %w", p.ID, e.p.State, from, sentinel.ErrInvalidState)
	}
	e.p = p
	return nil
}

func (s *Store) FindByID(_ context.Context, id domain.PresentationID) (domain.Presentation, error) {
	v, ok := s.byID.Load(id)
	if !ok {
		return domain.Presentation{}, fmt.Errorf("presentation %s: %w", id, sentinel.ErrNotFound)
	}
	return snapshot(v.(*entry)), nil
}

func (s *Store) FindByRequestID(_ context.Context, id domain.RequestID) (domain.Presentation, error) {
	v, ok := s.byRequestID.Load(id)
	if !ok {
		return domain.Presentation{}, fmt.Errorf("request id %s: %w", id, sentinel.ErrNotFound)
	}
	return snapshot(v.(*entry)), nil
}

// FindIncompleteOlderThan returns sessions still in a non-terminal state whose
// creation time is before the cutoff. Order is unspecified.
func (s *Store) FindIncompleteOlderThan(_ context.Context, cutoff time.Time) ([]domain.Presentation, error) {
	var stale []domain.Presentation
	s.byID.Range(func(_, v any) bool {
		p := snapshot(v.(*entry))
		if !p.State.Terminal() && p.InitiatedAt.Before(cutoff) {
			stale = append(stale, p)
		}
		return true
	})
	return stale, nil
}

func snapshot(e *entry) domain.Presentation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.p
}
