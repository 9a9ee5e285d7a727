// Package service implements the presentation session use cases: initializing
// a transaction, handing the signed request object to the wallet, recording
// the wallet's response, exposing the result to the relying party, and
// expiring stale sessions.
//
// Every mutating use case follows load -> validate state -> compute next
// snapshot -> conditional persist. The store's Update compares the stored
// state tag against the state the snapshot was loaded in, so a session
// transitions at most once along any edge and a terminal state is never
// overwritten, even under concurrent calls.
package service

import (
	"context"
	"log/slog"
	"time"

	"attesta/internal/audit"
	"attesta/internal/domain"
	"attesta/internal/platform/metrics"
)

// Store is the only shared mutable resource of the core.
type Store interface {
	Save(ctx context.Context, p domain.Presentation) error
	Update(ctx context.Context, p domain.Presentation, from domain.State) error
	FindByID(ctx context.Context, id domain.PresentationID) (domain.Presentation, error)
	FindByRequestID(ctx context.Context, id domain.RequestID) (domain.Presentation, error)
	FindIncompleteOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Presentation, error)
}

// Signer turns a request object claim set into a compact signed token.
type Signer interface {
	Sign(ro domain.RequestObject) (string, error)
}

// IDGenerator produces the two independent session identifiers.
type IDGenerator interface {
	PresentationID() (domain.PresentationID, error)
	RequestID() (domain.RequestID, error)
}

// Events receives lifecycle events; failures are logged, never surfaced to
// callers.
type Events interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store   Store
	signer  Signer
	ids     IDGenerator
	cfg     domain.VerifierConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  Events
	now     func() time.Time
}

// Option configures optional collaborators.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEvents(events Events) Option {
	return func(s *Service) { s.events = events }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Store, signer Signer, ids IDGenerator, cfg domain.VerifierConfig, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		signer: signer,
		ids:    ids,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) emit(ctx context.Context, p domain.Presentation, action audit.Action, detail string) {
	if s.events == nil {
		return
	}
	event := audit.Event{
		Timestamp:      s.now(),
		PresentationID: p.ID,
		RequestID:      p.RequestID,
		Action:         action,
		Detail:         detail,
	}
	if err := s.events.Emit(ctx, event); err != nil {
		s.logger.Warn("emit lifecycle event", "action", string(action), "err", err)
	}
}
