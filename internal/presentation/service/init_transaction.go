package service

import (
	"context"
	"fmt"

	"attesta/internal/audit"
	"attesta/internal/domain"
)

// InitTransactionResult tells the relying party how the wallet should be
// invoked: either the signed request object inline or a request_uri the
// wallet dereferences.
type InitTransactionResult struct {
	PresentationID domain.PresentationID `json:"presentation_id"`
	RequestURI     string                `json:"request_uri,omitempty"`
	RequestObject  string                `json:"request,omitempty"`
}

// InitTransaction creates a new presentation session for the requested type.
// Everything beyond the type comes from configuration. Generator or store
// exhaustion is fatal and propagates.
//
// With request-object embedding by value the JAR is signed here and the
// session is created already in RequestObjectRetrieved: the object is
// delivered inline and the wallet never calls back for it. By reference the
// session stays Requested until the wallet dereferences the request_uri.
func (s *Service) InitTransaction(ctx context.Context, typ domain.PresentationType) (InitTransactionResult, error) {
	pid, err := s.ids.PresentationID()
	if err != nil {
		return InitTransactionResult{}, err
	}
	rid, err := s.ids.RequestID()
	if err != nil {
		return InitTransactionResult{}, err
	}

	now := s.now()
	p := domain.NewPresentation(pid, rid, typ, now)
	result := InitTransactionResult{PresentationID: pid}

	switch s.cfg.RequestJAROption {
	case domain.EmbedByValue:
		jar, err := s.signRequestObject(p)
		if err != nil {
			return InitTransactionResult{}, err
		}
		if p, err = p.RetrieveRequestObject(now); err != nil {
			return InitTransactionResult{}, err
		}
		result.RequestObject = jar
	case domain.EmbedByReference:
		result.RequestURI = s.cfg.RequestURIBuilder(rid)
	}

	if err := s.store.Save(ctx, p); err != nil {
		return InitTransactionResult{}, fmt.Errorf("store presentation: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncTransactionsInitialized(typ.Kind.String())
	}
	s.emit(ctx, p, audit.ActionTransactionInitialized, typ.Kind.String())
	s.logger.Info("transaction initialized", "presentation_id", string(pid), "type", typ.Kind.String())

	return result, nil
}

func (s *Service) signRequestObject(p domain.Presentation) (string, error) {
	start := s.now()
	jar, err := s.signer.Sign(domain.RequestObjectOf(s.cfg, p))
	if err != nil {
		return "", fmt.Errorf("sign request object: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveSigningDuration(s.now().Sub(start))
	}
	return jar, nil
}
