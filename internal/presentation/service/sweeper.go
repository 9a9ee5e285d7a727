package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"attesta/internal/audit"
	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

const sweepConcurrency = 4

// TimeoutStale expires every session still in a non-terminal state past the
// configured max age. Idempotent: a session transitioned by another path
// between the scan and the update loses the CAS and is skipped. One failing
// session never aborts the sweep of the rest.
func (s *Service) TimeoutStale(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.MaxAge)
	stale, err := s.store.FindIncompleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for _, p := range stale {
		g.Go(func() error {
			s.timeoutOne(ctx, p)
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) timeoutOne(ctx context.Context, p domain.Presentation) {
	timedOut, err := p.Timeout(s.now())
	if err != nil {
		return
	}
	if err := s.store.Update(ctx, timedOut, p.State); err != nil {
		// Lost the race against a concurrent retrieval or submission.
		if !errors.Is(err, sentinel.ErrInvalidState) {
			s.logger.Warn("timeout presentation", "presentation_id", string(p.ID), "err", err)
		}
		return
	}
	if s.metrics != nil {
		s.metrics.IncPresentationsTimedOut()
	}
	s.emit(ctx, timedOut, audit.ActionPresentationTimedOut, "")
	s.logger.Info("presentation timed out", "presentation_id", string(p.ID), "initiated_at", p.InitiatedAt)
}

// Sweeper drives TimeoutStale on a fixed period, independent of request
// traffic.
type Sweeper struct {
	svc      *Service
	interval time.Duration
}

func NewSweeper(svc *Service, interval time.Duration) *Sweeper {
	return &Sweeper{svc: svc, interval: interval}
}

func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.svc.TimeoutStale(ctx); err != nil {
				w.svc.logger.Warn("timeout sweep failed", "err", err)
			}
		}
	}
}
