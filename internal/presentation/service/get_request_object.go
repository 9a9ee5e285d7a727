package service

import (
	"context"
	"fmt"

	"attesta/internal/audit"
	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

// GetRequestObject signs and hands out the request object for a session, then
// marks it retrieved. Retrievable exactly once: a replayed request_uri gets
// ErrInvalidState, never a re-signed token.
//
// The state transition persists only after successful signing, and only if no
// concurrent transition (e.g. the sweeper) won in between.
func (s *Service) GetRequestObject(ctx context.Context, id domain.RequestID) (string, error) {
	p, err := s.store.FindByRequestID(ctx, id)
	if err != nil {
		return "", err
	}
	if p.State != domain.StateRequested {
		return "", fmt.Errorf("request object for %s already delivered: %w", p.ID, sentinel.ErrInvalidState)
	}

	jar, err := s.signRequestObject(p)
	if err != nil {
		return "", err
	}

	retrieved, err := p.RetrieveRequestObject(s.now())
	if err != nil {
		return "", err
	}
	if err := s.store.Update(ctx, retrieved, domain.StateRequested); err != nil {
		return "", fmt.Errorf("persist retrieval: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncRequestObjectsRetrieved()
	}
	s.emit(ctx, retrieved, audit.ActionRequestObjectRetrieved, "")
	s.logger.Info("request object retrieved", "presentation_id", string(p.ID))

	return jar, nil
}

// GetPresentationDefinition serves the definition to wallets when it is
// embedded by reference. With by-value embedding the wallet already holds the
// definition inside the request object, so dereferencing is not a valid call.
func (s *Service) GetPresentationDefinition(ctx context.Context, id domain.RequestID) (*domain.PresentationDefinition, error) {
	p, err := s.store.FindByRequestID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cfg.PresentationDefinitionOption != domain.EmbedByReference {
		return nil, fmt.Errorf("presentation definition is embedded by value: %w", sentinel.ErrInvalidState)
	}
	if p.State.Terminal() {
		return nil, fmt.Errorf("presentation %s is %s: %w", p.ID, p.State, sentinel.ErrInvalidState)
	}
	if p.Type.PresentationDefinition == nil {
		return nil, fmt.Errorf("presentation %s requests no credentials: %w", p.ID, sentinel.ErrInvalidState)
	}
	return p.Type.PresentationDefinition, nil
}
